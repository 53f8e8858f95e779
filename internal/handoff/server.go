// Package handoff runs the short-lived localhost server that receives the
// browser login and turns it into a stored session.
package handoff

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/naveenspark/aula/internal/session"
	"github.com/naveenspark/aula/pkg/domain"
)

// ExchangeFunc trades a one-time login code for a session.
type ExchangeFunc func(ctx context.Context, code string) (domain.Session, error)

// ErrTimeout is returned by Wait when no login arrives in time.
var ErrTimeout = errors.New("login timed out, no callback received")

// Server is the localhost login callback server.
//
// The web login ends in one of two ways:
//   - it redirects to /auth/handoff with the URL-encoded session in
//     auth_data; the server stores it in the auth_data cookie and redirects
//     to /auth/complete, which consumes the cookie once;
//   - it redirects to /callback with a one-time code, which is exchanged
//     with the API.
type Server struct {
	state    string
	store    session.Store
	handoff  *session.Handoff
	exchange ExchangeFunc
	log      *zap.Logger

	results chan result
	srv     *http.Server
}

type result struct {
	sess domain.Session
	err  error
}

// NewState returns a random CSRF state token.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("handoff.NewState: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// New builds a server that saves adopted sessions into store.
func New(store session.Store, state string, exchange ExchangeFunc, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		state:    state,
		store:    store,
		handoff:  session.NewHandoff(store, log),
		exchange: exchange,
		log:      log,
		results:  make(chan result, 1),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/auth/handoff", s.handleHandoff)
	r.Get("/auth/complete", s.handleComplete)
	r.Get("/callback", s.handleCallback)
	return r
}

// Start listens on a random localhost port and returns the base URL.
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("handoff.Start: listen: %w", err)
	}
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(result{err: err})
		}
	}()
	return "http://" + listener.Addr().String(), nil
}

// Wait blocks until a session is adopted, the server fails, ctx ends, or
// timeout passes. The server is shut down before returning.
func (s *Server) Wait(ctx context.Context, timeout time.Duration) (domain.Session, error) {
	defer s.shutdown()
	select {
	case res := <-s.results:
		return res.sess, res.err
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	case <-time.After(timeout):
		return domain.Session{}, ErrTimeout
	}
}

func (s *Server) shutdown() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.srv.Shutdown(ctx) //nolint:errcheck
}

// deliver reports the first result only.
func (s *Server) deliver(res result) {
	select {
	case s.results <- res:
	default:
	}
}

func (s *Server) checkState(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("state") != s.state {
		http.Error(w, "invalid state", http.StatusForbidden)
		s.log.Warn("login callback state mismatch", zap.String("path", r.URL.Path))
		return false
	}
	return true
}

func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	if !s.checkState(w, r) {
		return
	}
	raw := r.URL.Query().Get(session.HandoffCookieName)
	if raw == "" {
		http.Error(w, "missing auth_data", http.StatusBadRequest)
		return
	}
	// Query() already unescaped once; the cookie carries the escaped form.
	sess, ok := session.ParseHandoff(url.QueryEscape(raw))
	if !ok {
		http.Error(w, "invalid auth_data", http.StatusBadRequest)
		return
	}
	c, err := session.NewHandoffCookie(sess)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, c)
	http.Redirect(w, r, "/auth/complete", http.StatusFound)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.handoff.Adopt(w, r)
	if !ok {
		http.Error(w, "no pending login", http.StatusBadRequest)
		return
	}
	writeDone(w)
	s.deliver(result{sess: sess})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.checkState(w, r) {
		s.deliver(result{err: errors.New("callback state mismatch (possible CSRF)")})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		s.deliver(result{err: errors.New("callback received without code")})
		return
	}
	if s.exchange == nil {
		http.Error(w, "code exchange unsupported", http.StatusNotImplemented)
		return
	}
	sess, err := s.exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "exchange failed", http.StatusInternalServerError)
		s.deliver(result{err: fmt.Errorf("code exchange: %w", err)})
		return
	}
	if !sess.Active() {
		http.Error(w, "exchange failed", http.StatusInternalServerError)
		s.deliver(result{err: errors.New("code exchange: incomplete session")})
		return
	}
	if err := s.store.Save(sess); err != nil {
		http.Error(w, "save failed", http.StatusInternalServerError)
		s.deliver(result{err: fmt.Errorf("save session: %w", err)})
		return
	}
	writeDone(w)
	s.deliver(result{sess: sess})
}

func writeDone(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, doneHTML) //nolint:errcheck
}

const doneHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Aula</title>
<style>
body{background:#0f1117;color:#e4e4ec;font-family:'JetBrains Mono',monospace;
height:100vh;display:flex;align-items:center;justify-content:center}
.msg{color:#34d474;font-weight:600;margin-bottom:8px}
.sub{color:#606878;font-size:12px}
</style>
</head>
<body>
<div>
  <div class="msg">sesión iniciada</div>
  <div class="sub">vuelve a tu terminal</div>
</div>
</body>
</html>`
