package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naveenspark/aula/pkg/domain"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20 // 1 MB

// maxDownload caps certificate downloads.
var maxDownload int64 = 50 << 20 // 50 MB

// Client is the school API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a new API client.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of the client authenticated with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token returns the bearer token the client sends.
func (c *Client) Token() string { return c.token }

// --- Auth ---

// LoginRequest is the payload for form-based login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}

// Session converts the response into a client session.
func (r *AuthResponse) Session() domain.Session {
	if r == nil {
		return domain.Session{}
	}
	return domain.Session{Token: r.Token, User: r.User}
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// ExchangeCode trades the one-time code from the CLI login callback for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/auth/cli-exchange", map[string]string{"code": code}, &resp); err != nil {
		return nil, fmt.Errorf("client.ExchangeCode: %w", err)
	}
	return &resp, nil
}

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.UserProfile, error) {
	var u domain.UserProfile
	if err := c.get(ctx, "/api/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// --- Dashboard ---

// GetDashboard fetches the payload from a role dashboard endpoint.
// A 2xx body that is not JSON yields an empty payload, so every lookup
// falls back to its zero default.
func (c *Client) GetDashboard(ctx context.Context, path string) (*domain.DashboardPayload, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "application/json")
	if err != nil {
		return nil, fmt.Errorf("client.GetDashboard: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client.GetDashboard: read body: %w", err)
	}
	var p domain.DashboardPayload
	if len(bytes.TrimSpace(data)) == 0 {
		return &p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Debug("malformed dashboard payload",
			zap.String("path", path),
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Error(err),
		)
		return &domain.DashboardPayload{}, nil
	}
	return &p, nil
}

// --- Groups & courses ---

// ListGroups returns the groups visible to the caller.
func (c *Client) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := c.get(ctx, "/api/groups", &groups); err != nil {
		return nil, fmt.Errorf("client.ListGroups: %w", err)
	}
	return groups, nil
}

// GroupHistory returns finished groups.
func (c *Client) GroupHistory(ctx context.Context) ([]domain.Group, error) {
	params := url.Values{}
	params.Set("status", "finished")

	var groups []domain.Group
	if err := c.get(ctx, "/api/groups?"+params.Encode(), &groups); err != nil {
		return nil, fmt.Errorf("client.GroupHistory: %w", err)
	}
	return groups, nil
}

// CreateGroup creates a group. body is validated by the caller.
func (c *Client) CreateGroup(ctx context.Context, body any) (*domain.Group, error) {
	var g domain.Group
	if err := c.post(ctx, "/api/groups", body, &g); err != nil {
		return nil, fmt.Errorf("client.CreateGroup: %w", err)
	}
	return &g, nil
}

// ListCourses returns the course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/api/courses", &courses); err != nil {
		return nil, fmt.Errorf("client.ListCourses: %w", err)
	}
	return courses, nil
}

// CreateCourse adds a course to the catalog.
func (c *Client) CreateCourse(ctx context.Context, body any) (*domain.Course, error) {
	var course domain.Course
	if err := c.post(ctx, "/api/courses", body, &course); err != nil {
		return nil, fmt.Errorf("client.CreateCourse: %w", err)
	}
	return &course, nil
}

// --- Classes, materials, evaluations ---

// ListClasses returns classes, optionally for one group.
func (c *Client) ListClasses(ctx context.Context, groupID domain.ID) ([]domain.Class, error) {
	path := "/api/classes"
	if groupID != "" {
		path += "?" + url.Values{"group_id": {groupID.String()}}.Encode()
	}
	var classes []domain.Class
	if err := c.get(ctx, path, &classes); err != nil {
		return nil, fmt.Errorf("client.ListClasses: %w", err)
	}
	return classes, nil
}

// CreateClass schedules a class.
func (c *Client) CreateClass(ctx context.Context, body any) (*domain.Class, error) {
	var class domain.Class
	if err := c.post(ctx, "/api/classes", body, &class); err != nil {
		return nil, fmt.Errorf("client.CreateClass: %w", err)
	}
	return &class, nil
}

// ListMaterials returns materials, optionally for one class.
func (c *Client) ListMaterials(ctx context.Context, classID domain.ID) ([]domain.Material, error) {
	path := "/api/materials"
	if classID != "" {
		path += "?" + url.Values{"class_id": {classID.String()}}.Encode()
	}
	var materials []domain.Material
	if err := c.get(ctx, path, &materials); err != nil {
		return nil, fmt.Errorf("client.ListMaterials: %w", err)
	}
	return materials, nil
}

// CreateMaterial attaches a material to a class.
func (c *Client) CreateMaterial(ctx context.Context, body any) (*domain.Material, error) {
	var m domain.Material
	if err := c.post(ctx, "/api/materials", body, &m); err != nil {
		return nil, fmt.Errorf("client.CreateMaterial: %w", err)
	}
	return &m, nil
}

// ListEvaluations returns the evaluations visible to the caller.
func (c *Client) ListEvaluations(ctx context.Context) ([]domain.Evaluation, error) {
	var evals []domain.Evaluation
	if err := c.get(ctx, "/api/evaluations", &evals); err != nil {
		return nil, fmt.Errorf("client.ListEvaluations: %w", err)
	}
	return evals, nil
}

// CreateEvaluation creates an evaluation for a group.
func (c *Client) CreateEvaluation(ctx context.Context, body any) (*domain.Evaluation, error) {
	var e domain.Evaluation
	if err := c.post(ctx, "/api/evaluations", body, &e); err != nil {
		return nil, fmt.Errorf("client.CreateEvaluation: %w", err)
	}
	return &e, nil
}

// --- Attendance ---

// ListAttendances returns attendance records, optionally for one class.
func (c *Client) ListAttendances(ctx context.Context, classID domain.ID) ([]domain.AttendanceRecord, error) {
	path := "/api/attendances"
	if classID != "" {
		params := url.Values{}
		params.Set("class_id", classID.String())
		path += "?" + params.Encode()
	}
	var records []domain.AttendanceRecord
	if err := c.get(ctx, path, &records); err != nil {
		return nil, fmt.Errorf("client.ListAttendances: %w", err)
	}
	return records, nil
}

// RecordAttendance stores one attendance record.
func (c *Client) RecordAttendance(ctx context.Context, body any) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	if err := c.post(ctx, "/api/attendances", body, &rec); err != nil {
		return nil, fmt.Errorf("client.RecordAttendance: %w", err)
	}
	return &rec, nil
}

// --- Certificates ---

// ListCertificates returns the caller's certificates.
func (c *Client) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	var certs []domain.Certificate
	if err := c.get(ctx, "/api/certificates", &certs); err != nil {
		return nil, fmt.Errorf("client.ListCertificates: %w", err)
	}
	return certs, nil
}

// Download is a binary response body.
type Download struct {
	ContentType string
	Data        []byte
}

// DownloadCertificate fetches the PDF for a credential id.
func (c *Client) DownloadCertificate(ctx context.Context, credentialID string) (*Download, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/certificates/"+url.PathEscape(credentialID)+"/download", nil, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("client.DownloadCertificate: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("client.DownloadCertificate: read body: %w", err)
	}
	if int64(len(data)) > maxDownload {
		return nil, fmt.Errorf("client.DownloadCertificate: %w", ErrTooLarge)
	}
	return &Download{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.send(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// send performs the request and converts non-2xx responses into *HTTPError.
// On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, path string, body any, accept string) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("do request: %w", err)
	}
	c.log.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close() //nolint:errcheck // best-effort close
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return nil, parseErrorBody(resp.StatusCode, respBody)
	}
	return resp, nil
}
