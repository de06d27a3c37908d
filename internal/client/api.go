package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"dtiestoque.org/internal/inventory"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("api: %d %s (request %s)", e.Status, e.Message, e.RequestID)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// User is the public part of the logged-in account.
type User struct {
	Name  string `json:"nome" yaml:"nome"`
	Email string `json:"email" yaml:"email"`
}

// LoginResult is the server's answer to a successful login.
type LoginResult struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Registration is the payload of a new account.
type Registration struct {
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Permission string `json:"permissao,omitempty"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type mutationResponse struct {
	AffectedRows int64 `json:"affectedRows"`
}

// Client talks to the inventory HTTP API.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a client for baseURL (for example http://localhost:3000).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// SetToken sets the bearer token sent with equipment requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "senha": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, reg Registration) (int64, error) {
	var res createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (c *Client) ListEquipment(ctx context.Context) ([]inventory.Equipment, error) {
	var items []inventory.Equipment
	if err := c.do(ctx, http.MethodGet, "/api/equipamentos", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []inventory.Equipment{}
	}
	return items, nil
}

func (c *Client) CreateEquipment(ctx context.Context, f inventory.Fields) (int64, error) {
	var res createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/equipamentos", f, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (c *Client) UpdateEquipment(ctx context.Context, id int64, f inventory.Fields) (int64, error) {
	var res mutationResponse
	if err := c.do(ctx, http.MethodPut, equipmentPath(id), f, &res); err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

func (c *Client) DeleteEquipment(ctx context.Context, id int64) (int64, error) {
	var res mutationResponse
	if err := c.do(ctx, http.MethodDelete, equipmentPath(id), nil, &res); err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

func (c *Client) CategoryCounts(ctx context.Context) ([]inventory.CategoryCount, error) {
	var rows []inventory.CategoryCount
	err := c.do(ctx, http.MethodGet, "/api/dashboard/equipamentos/category", nil, &rows)
	return rows, err
}

func (c *Client) StatusCounts(ctx context.Context) ([]inventory.StatusCount, error) {
	var rows []inventory.StatusCount
	err := c.do(ctx, http.MethodGet, "/api/dashboard/equipamentos/status", nil, &rows)
	return rows, err
}

func (c *Client) Summary(ctx context.Context) (inventory.Summary, error) {
	var s inventory.Summary
	err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, &s)
	return s, err
}

func (c *Client) Counts(ctx context.Context) (inventory.Counts, error) {
	var counts inventory.Counts
	err := c.do(ctx, http.MethodGet, "/api/dashboard/counts", nil, &counts)
	return counts, err
}

func equipmentPath(id int64) string {
	return "/api/equipamentos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get("X-Request-ID")}
	var payload struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Error
		if apiErr.Message == "" {
			apiErr.Message = payload.Message
		}
		if payload.RequestID != "" {
			apiErr.RequestID = payload.RequestID
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
