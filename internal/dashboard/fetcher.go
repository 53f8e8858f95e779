// Package dashboard loads the role-specific dashboard payload and tracks the
// loading, error, and success states shown while it arrives.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/aula/internal/views"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

// Source fetches a dashboard payload from an API path.
type Source interface {
	GetDashboard(ctx context.Context, path string) (*domain.DashboardPayload, error)
}

// Phase is the load state of the dashboard.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	}
	return "idle"
}

// State is what the dashboard view renders.
type State struct {
	Phase   Phase
	Message string
	// Expired is set when the API rejected the token; the user should log in again.
	Expired bool
	Payload *domain.DashboardPayload
	Seq     uint64
}

// Loading reports whether a request is in flight.
func (s State) Loading() bool { return s.Phase == PhaseLoading }

// User-facing messages.
const (
	MsgExpired   = "Tu sesión ha expirado. Inicia sesión nuevamente."
	MsgForbidden = "No tienes permiso para ver este panel."
	MsgNotFound  = "No se encontró tu perfil."
	MsgNetwork   = "No se pudo conectar con el servidor. Revisa tu conexión e inténtalo de nuevo."
)

// Fetcher issues dashboard requests. Only the most recent request may change
// the state: results carrying an older sequence number are dropped.
type Fetcher struct {
	src      Source
	registry views.Registry
	log      *zap.Logger

	mu    sync.Mutex
	role  domain.Role
	seq   uint64
	state State
}

// New returns a fetcher reading endpoints from views.Default.
func New(src Source, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{src: src, registry: views.Default, log: log}
}

// Fetch performs one GET against the role's endpoint. It does not touch State.
func (f *Fetcher) Fetch(ctx context.Context, role domain.Role) (*domain.DashboardPayload, error) {
	path := f.registry.Endpoint(role)
	p, err := f.src.GetDashboard(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("dashboard.Fetch %s: %w", path, err)
	}
	if p == nil {
		p = domain.NewDashboardPayload(nil)
	}
	return p, nil
}

// Begin marks a new request for role as in flight and returns its sequence number.
func (f *Fetcher) Begin(role domain.Role) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.role = role
	f.state = State{Phase: PhaseLoading, Seq: f.seq}
	return f.seq
}

// Resolve records the outcome of request seq. ok is false when a newer
// request has started since, in which case the state is unchanged.
func (f *Fetcher) Resolve(seq uint64, p *domain.DashboardPayload, err error) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		f.log.Debug("dropping stale dashboard result", zap.Uint64("seq", seq), zap.Uint64("current", f.seq))
		return f.state, false
	}
	if err != nil {
		msg, expired := Describe(err)
		f.log.Warn("dashboard load failed", zap.String("role", string(f.role)), zap.Error(err))
		f.state = State{Phase: PhaseError, Message: msg, Expired: expired, Seq: seq}
		return f.state, true
	}
	f.state = State{Phase: PhaseSuccess, Payload: p, Seq: seq}
	return f.state, true
}

// Load runs Begin, Fetch, and Resolve in order.
func (f *Fetcher) Load(ctx context.Context, role domain.Role) State {
	seq := f.Begin(role)
	p, err := f.Fetch(ctx, role)
	st, _ := f.Resolve(seq, p, err)
	return st
}

// Retry reloads with the role of the last request.
func (f *Fetcher) Retry(ctx context.Context) State {
	return f.Load(ctx, f.Role())
}

// Role returns the role of the last request.
func (f *Fetcher) Role() domain.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.role == "" {
		return domain.RoleStudent
	}
	return f.role
}

// State returns the current state.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Describe turns a fetch error into a user-facing message. expired is true
// for HTTP 401.
func Describe(err error) (msg string, expired bool) {
	var herr *client.HTTPError
	if !errors.As(err, &herr) {
		return MsgNetwork, false
	}
	switch herr.StatusCode {
	case http.StatusUnauthorized:
		return MsgExpired, true
	case http.StatusForbidden:
		return MsgForbidden, false
	case http.StatusNotFound:
		return MsgNotFound, false
	}
	if herr.Message != "" {
		return herr.Message, false
	}
	return fmt.Sprintf("No se pudo cargar el panel (HTTP %d).", herr.StatusCode), false
}
