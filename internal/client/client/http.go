package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// HTTPClient talks JSON to the backend REST API and probes the backend's
// gRPC health service. It is safe for concurrent use.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	conn   *grpc.ClientConn
	health grpc_health_v1.HealthClient

	mu    sync.RWMutex
	token string
}

// NewHTTPClient creates a client for the API at baseURL. When healthAddr is
// empty Ping falls back to GET /api/health.
func NewHTTPClient(baseURL, healthAddr string, timeout time.Duration) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}

	if healthAddr != "" {
		conn, err := grpc.NewClient(healthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("health client: %w", err)
		}
		c.conn = conn
		c.health = grpc_health_v1.NewHealthClient(conn)
	}

	return c, nil
}

func (c *HTTPClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (shared.User, error) {
	var user shared.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", shared.Credentials{Email: email, Password: password}, &user)
	return user, err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (shared.Session, error) {
	var session shared.Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", shared.Credentials{Email: email, Password: password}, &session)
	return session, err
}

func (c *HTTPClient) Session(ctx context.Context) (shared.User, error) {
	var user shared.User
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &user)
	return user, err
}

func (c *HTTPClient) CreateCode(ctx context.Context, req shared.CreateCodeRequest) (shared.Code, error) {
	var code shared.Code
	err := c.do(ctx, http.MethodPost, "/api/codes", req, &code)
	return code, err
}

func (c *HTTPClient) UpdateCode(ctx context.Context, id string, req shared.UpdateCodeRequest) (shared.Code, error) {
	var code shared.Code
	err := c.do(ctx, http.MethodPatch, codePath(id), req, &code)
	return code, err
}

func (c *HTTPClient) DeleteCode(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, codePath(id), nil, nil)
}

func (c *HTTPClient) GetCode(ctx context.Context, id string) (shared.Code, error) {
	var code shared.Code
	err := c.do(ctx, http.MethodGet, codePath(id), nil, &code)
	return code, err
}

func (c *HTTPClient) ListCodes(ctx context.Context, ownerID string) ([]shared.Code, error) {
	path := "/api/codes"
	if ownerID != "" {
		path += "?owner=" + url.QueryEscape(ownerID)
	}
	var list []shared.Code
	err := c.do(ctx, http.MethodGet, path, nil, &list)
	return list, err
}

func (c *HTTPClient) ListScans(ctx context.Context, codeID string) ([]shared.Scan, error) {
	var list []shared.Scan
	err := c.do(ctx, http.MethodGet, codePath(codeID)+"/scans", nil, &list)
	return list, err
}

func (c *HTTPClient) AdminListCodes(ctx context.Context) ([]shared.Code, error) {
	var list []shared.Code
	err := c.do(ctx, http.MethodGet, "/api/admin/codes", nil, &list)
	return list, err
}

func (c *HTTPClient) PresignLogo(ctx context.Context, contentType string) (shared.LogoUpload, error) {
	var up shared.LogoUpload
	err := c.do(ctx, http.MethodPost, "/api/logos", shared.LogoUploadRequest{ContentType: contentType}, &up)
	return up, err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.health == nil {
		return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
	}

	resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func codePath(id string) string {
	return "/api/codes/" + url.PathEscape(id)
}

// do sends body as JSON and decodes a successful response into target.
// Transport failures and non-2xx statuses come back as the package's
// sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var er shared.ErrorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		sentinel = ErrServer
	}
	return fmt.Errorf("%w: %d %s", sentinel, resp.StatusCode, msg)
}
