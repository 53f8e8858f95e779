package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/aula/pkg/domain"
)

func sampleSession() domain.Session {
	return domain.Session{
		Token: "abc",
		User:  &domain.UserProfile{ID: "1", Email: "a@b.com", Role: domain.SingleRole("admin")},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".aula")
	s := NewFileStore(dir, nil)

	assert.False(t, s.Load().Active(), "fresh store should be logged out")

	require.NoError(t, s.Save(sampleSession()))

	got := s.Load()
	require.True(t, got.Active())
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, "a@b.com", got.User.Email)
	assert.True(t, domain.ResolveRoles(got.User).IsAdmin())

	raw, err := os.ReadFile(filepath.Join(dir, KeyToken))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(raw), "token is stored JSON-encoded")

	info, err := os.Stat(filepath.Join(dir, KeyUser))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStorePartialIsAbsent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyToken), []byte(`"abc"`), 0600))

	assert.False(t, NewFileStore(dir, nil).Load().Active())
}

func TestFileStoreMalformedIsAbsent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyToken), []byte(`"abc"`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyUser), []byte(`{not json`), 0600))

	assert.Equal(t, domain.Session{}, NewFileStore(dir, nil).Load())
}

func TestFileStoreEmptyTokenIsAbsent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyToken), []byte(`""`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyUser), []byte(`{"email":"a@b.com"}`), 0600))

	assert.False(t, NewFileStore(dir, nil).Load().Active())
}

func TestFileStoreSaveRejectsPartial(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	assert.ErrorIs(t, s.Save(domain.Session{Token: "abc"}), ErrIncompleteSession)
	assert.ErrorIs(t, s.Save(domain.Session{User: &domain.UserProfile{}}), ErrIncompleteSession)
}

func TestFileStoreClear(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	require.NoError(t, s.Clear(), "clearing an empty store")
	require.NoError(t, s.Save(sampleSession()))
	require.NoError(t, s.Clear())
	assert.False(t, s.Load().Active())
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	assert.False(t, m.Load().Active())

	require.NoError(t, m.Save(sampleSession()))
	assert.Equal(t, "abc", m.Load().Token)

	m.Set(KeyUser, []byte("garbage"))
	assert.False(t, m.Load().Active())

	require.NoError(t, m.Clear())
	assert.False(t, m.Load().Active())
}
