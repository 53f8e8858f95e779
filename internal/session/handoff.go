package session

import (
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/aula/pkg/domain"
)

// Handoff cookie written by the external login redirect.
const (
	HandoffCookieName = "auth_data"
	HandoffCookiePath = "/auth"
	HandoffCookieTTL  = 60 * time.Second
)

// NewHandoffCookie encodes sess the way the login redirect does:
// URL-encoded JSON {"token": ..., "user": {...}}.
func NewHandoffCookie(sess domain.Session) (*http.Cookie, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     HandoffCookieName,
		Value:    url.QueryEscape(string(data)),
		Path:     HandoffCookiePath,
		MaxAge:   int(HandoffCookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ParseHandoff decodes a handoff cookie value. ok is false for malformed or
// partial sessions.
//
// The browser must set the cookie URL-encoded. A raw JSON value would parse
// here, but net/http drops cookie values containing '"', so Adopt never
// sees it.
func ParseHandoff(value string) (domain.Session, bool) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return domain.Session{}, false
	}
	if !sess.Active() {
		return domain.Session{}, false
	}
	return sess, true
}

// Handoff migrates handoff cookies into a Store. Each cookie value is
// consumed at most once, even if the browser replays it.
type Handoff struct {
	store Store
	log   *zap.Logger

	mu   sync.Mutex
	seen map[[sha256.Size]byte]struct{}
}

// NewHandoff returns a Handoff writing into store.
func NewHandoff(store Store, log *zap.Logger) *Handoff {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handoff{store: store, log: log, seen: make(map[[sha256.Size]byte]struct{})}
}

// Adopt looks for the handoff cookie on r. When present it is always expired
// on w; when it also carries a fresh, complete session that session is saved
// and returned.
func (h *Handoff) Adopt(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	c, err := r.Cookie(HandoffCookieName)
	if err != nil || c.Value == "" {
		return domain.Session{}, false
	}
	expireHandoffCookie(w)

	key := sha256.Sum256([]byte(c.Value))
	h.mu.Lock()
	_, replay := h.seen[key]
	h.seen[key] = struct{}{}
	h.mu.Unlock()
	if replay {
		h.log.Warn("handoff cookie replayed; ignoring")
		return domain.Session{}, false
	}

	sess, ok := ParseHandoff(c.Value)
	if !ok {
		h.log.Warn("handoff cookie malformed; ignoring")
		return domain.Session{}, false
	}
	if err := h.store.Save(sess); err != nil {
		h.log.Error("save handoff session", zap.Error(err))
		return domain.Session{}, false
	}
	h.log.Info("handoff session adopted", zap.String("email", sess.User.Email))
	return sess, true
}

func expireHandoffCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     HandoffCookieName,
		Value:    "",
		Path:     HandoffCookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
