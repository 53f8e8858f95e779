package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/naveenspark/aula/pkg/domain"
)

// makeTarGz creates a tar.gz file with the given entries.
func makeTarGz(t *testing.T, dest string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range entries {
		hdr := &tar.Header{
			Name:     name,
			Size:     int64(len(content)),
			Mode:     0755,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractBinary(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		want    string
		wantErr bool
	}{
		{"top level", map[string]string{"aula": "bin", "README.md": "docs"}, "bin", false},
		{"in subdir", map[string]string{"aula_linux_amd64/aula": "subdir-bin"}, "subdir-bin", false},
		{"no match", map[string]string{"aula-helper": "x"}, "", true},
		{"empty", map[string]string{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tarPath := filepath.Join(dir, "test.tar.gz")
			makeTarGz(t, tarPath, tt.entries)

			dest := filepath.Join(dir, "out")
			err := extractBinary(tarPath, dest)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractBinary() error: %v", err)
			}
			data, err := os.ReadFile(dest)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("content = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	dir := t.TempDir()
	name := "aula_linux_amd64.tar.gz"
	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256([]byte("payload"))
	good := hex.EncodeToString(sum[:])

	tests := []struct {
		name    string
		sums    string
		wantErr string
	}{
		{"match", good + "  " + name + "\n", ""},
		{"binary marker", good + " *" + name + "\n", ""},
		{"mismatch", strings.Repeat("0", 64) + "  " + name + "\n", "checksum mismatch"},
		{"other file only", good + "  aula_darwin_arm64.tar.gz\n", "no checksum found"},
		{"prefix name does not match", good + "  " + name + ".sig\n", "no checksum found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sumsPath := filepath.Join(t.TempDir(), "checksums.txt")
			if err := os.WriteFile(sumsPath, []byte(tt.sums), 0644); err != nil {
				t.Fatal(err)
			}
			err := verifyChecksum(filePath, sumsPath, name)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("verifyChecksum() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestAssetURLs(t *testing.T) {
	rel := ghRelease{TagName: "v1.2.0", Assets: []ghAsset{
		{Name: "checksums.txt", BrowserDownloadURL: "https://dl/sums"},
		{Name: tarballName(), BrowserDownloadURL: "https://dl/tar"},
		{Name: "aula_plan9_386.tar.gz", BrowserDownloadURL: "https://dl/other"},
	}}
	tarURL, sumsURL := rel.assetURLs(tarballName())
	if tarURL != "https://dl/tar" || sumsURL != "https://dl/sums" {
		t.Errorf("assetURLs = %q, %q", tarURL, sumsURL)
	}
	if want := "aula_" + runtime.GOOS + "_" + runtime.GOARCH + ".tar.gz"; tarballName() != want {
		t.Errorf("tarballName() = %q, want %q", tarballName(), want)
	}
}

func TestBuildLoginURL(t *testing.T) {
	got := buildLoginURL("https://aula.school", "http://127.0.0.1:5123", "abc")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "aula.school" || u.Path != "/login" {
		t.Errorf("url = %q", got)
	}
	if u.Query().Get("cli_callback") != "http://127.0.0.1:5123" || u.Query().Get("state") != "abc" {
		t.Errorf("query = %v", u.Query())
	}
}

func TestSessionWithToken(t *testing.T) {
	stored := domain.Session{Token: "stored", User: &domain.UserProfile{Email: "ana@school.pe"}}

	if got := sessionWithToken(stored, ""); got.Token != "stored" {
		t.Errorf("no override: token = %q", got.Token)
	}
	got := sessionWithToken(stored, "env")
	if got.Token != "env" || got.User.Email != "ana@school.pe" {
		t.Errorf("override: %+v", got)
	}
	got = sessionWithToken(domain.Session{}, "env")
	if !got.Active() {
		t.Error("env token alone should produce an active session")
	}
}

func TestRoleName(t *testing.T) {
	tests := map[domain.Role]string{
		domain.RoleAdmin:   "administrador",
		domain.RoleTeacher: "docente",
		domain.RoleStudent: "estudiante",
		domain.Role("x"):   "estudiante",
	}
	for role, want := range tests {
		if got := roleName(role); got != want {
			t.Errorf("roleName(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--help"}, {"--update-done"}} {
		if err := run(args); err != nil {
			t.Errorf("run(%v) error: %v", args, err)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)

	err := run([]string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("err = %v, want unknown command", err)
	}
}

func TestRunCertificateUsage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)

	err := run([]string{"certificate"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("err = %v, want usage error", err)
	}
}

func TestParseFlags(t *testing.T) {
	fs := pflag.NewFlagSet("certificate", pflag.ContinueOnError)
	out := fs.StringP("out", "o", "/default", "")
	help, err := parseFlags(fs, []string{"CRED-1", "-o", "/tmp/certs"})
	if err != nil || help {
		t.Fatalf("parseFlags() = %v, %v", help, err)
	}
	if *out != "/tmp/certs" || fs.Arg(0) != "CRED-1" {
		t.Errorf("out = %q, args = %v", *out, fs.Args())
	}

	fs = pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if help, err := parseFlags(fs, []string{"-h"}); err != nil || !help {
		t.Errorf("-h: help = %v, err = %v", help, err)
	}

	fs = pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseFlags(fs, []string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
