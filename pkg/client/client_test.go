package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/aula/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte(`{"id":7,"email":"ana@school.pe","first_name":"Ana","role":["docente"]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.ID != "7" {
		t.Errorf("ID = %q, want %q", me.ID, "7")
	}
	if !domain.ResolveRoles(me).IsTeacher() {
		t.Errorf("roles = %v, want teacher", domain.ResolveRoles(me).Sorted())
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(err, 401) = false, want true")
	}
}

func TestGetDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/teacher/dashboard" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"stats":{"total_groups":3}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	p, err := c.GetDashboard(context.Background(), "/api/teacher/dashboard")
	if err != nil {
		t.Fatalf("GetDashboard() error: %v", err)
	}
	if got := p.Int("stats.total_groups"); got != 3 {
		t.Errorf("total_groups = %d, want 3", got)
	}
}

func TestListGroups_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]domain.Group{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	groups, err := c.ListGroups(context.Background())
	if err != nil {
		t.Fatalf("ListGroups() error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}
}

func TestGroupHistoryQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "finished" {
			t.Errorf("status = %q, want finished", r.URL.Query().Get("status"))
		}
		w.Write([]byte(`[{"id":1,"name":"G-2024","status":"finished"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	groups, err := New(srv.URL, "tok").GroupHistory(context.Background())
	if err != nil {
		t.Fatalf("GroupHistory() error: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "G-2024" {
		t.Errorf("groups = %+v", groups)
	}
}

func TestCreateClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 10, "title": req["title"]}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	class, err := c.CreateClass(context.Background(), map[string]string{"title": "Intro"})
	if err != nil {
		t.Fatalf("CreateClass() error: %v", err)
	}
	if class.Title != "Intro" || class.ID != "10" {
		t.Errorf("class = %+v", class)
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want it to contain 'boom'", got)
	}
}

func TestHTTPError_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"The given data was invalid.","errors":{"email":["El correo ya existe."],"dni":"DNI inválido"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Register(context.Background(), RegisterRequest{Email: "a@b.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	fields := FieldErrors(err)
	if len(fields["email"]) != 1 || fields["email"][0] != "El correo ya existe." {
		t.Errorf("email errors = %v", fields["email"])
	}
	if len(fields["dni"]) != 1 {
		t.Errorf("dni errors = %v", fields["dni"])
	}
	if !strings.Contains(err.Error(), "The given data was invalid.") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error key", `{"error":"nope"}`, "nope"},
		{"message key", `{"message":"bad"}`, "bad"},
		{"detail key", `{"detail":"missing"}`, "missing"},
		{"plain text", `gateway timeout`, "gateway timeout"},
		{"fields only", `{"errors":{"b":["second"],"a":["first"]}}`, "first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseErrorBody(400, []byte(tt.body))
			if got.Message != tt.want {
				t.Errorf("Message = %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestDownloadCertificate(t *testing.T) {
	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x42}, 4096)...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/certificates/CRED-9/download" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Accept") != "application/pdf" {
			t.Errorf("Accept = %q, want application/pdf", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf) //nolint:errcheck
	}))
	defer srv.Close()

	dl, err := New(srv.URL, "tok").DownloadCertificate(context.Background(), "CRED-9")
	if err != nil {
		t.Fatalf("DownloadCertificate() error: %v", err)
	}
	if len(dl.Data) != len(pdf) {
		t.Errorf("len = %d, want %d", len(dl.Data), len(pdf))
	}
	if dl.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", dl.ContentType)
	}
}

func TestWithToken(t *testing.T) {
	c := New("http://x", "")
	authed := c.WithToken("abc")
	if c.Token() != "" || authed.Token() != "abc" {
		t.Errorf("tokens = %q %q", c.Token(), authed.Token())
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		w.Write([]byte(`{}`))       //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetMe(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/cli-exchange" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req["code"] != "one-time" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"token":"tok-1","user":{"id":3,"email":"a@b.pe","role":"student"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "").ExchangeCode(context.Background(), "one-time")
	if err != nil {
		t.Fatalf("ExchangeCode() error: %v", err)
	}
	if sess := resp.Session(); !sess.Active() || sess.Token != "tok-1" {
		t.Errorf("session = %+v", sess)
	}
}

func TestGetDashboard_MalformedBody(t *testing.T) {
	for name, body := range map[string]string{"html": `<html>oops</html>`, "array": `[1,2]`, "empty": ``} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(body)) //nolint:errcheck
			}))
			defer srv.Close()

			p, err := New(srv.URL, "tok").GetDashboard(context.Background(), "/api/admin/dashboard")
			if err != nil {
				t.Fatalf("GetDashboard() error: %v", err)
			}
			if got := p.Int("stats.total_students"); got != 0 {
				t.Errorf("total_students = %d, want 0", got)
			}
		})
	}
}

func TestDownloadCertificate_TooLarge(t *testing.T) {
	orig := maxDownload
	maxDownload = 64
	t.Cleanup(func() { maxDownload = orig })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := 64
		if r.URL.Path == "/api/certificates/BIG/download" {
			size = 65
		}
		w.Write(append([]byte("%PDF-"), bytes.Repeat([]byte{0x42}, size-5)...)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	dl, err := c.DownloadCertificate(context.Background(), "FITS")
	if err != nil {
		t.Fatalf("DownloadCertificate(at limit) error: %v", err)
	}
	if len(dl.Data) != 64 {
		t.Errorf("len = %d, want 64", len(dl.Data))
	}
	if _, err := c.DownloadCertificate(context.Background(), "BIG"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}
