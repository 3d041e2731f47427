package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/resumes"
	"resume-builder/resume/model"
)

const defaultClientTimeout = 30 * time.Second

// APIClient talks to the resume HTTP API.
type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewAPIClient constructs a client for the API served at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultClientTimeout},
	}
}

type recordBody struct {
	UserID   *string         `json:"userId,omitempty"`
	Title    string          `json:"title"`
	Data     json.RawMessage `json:"data"`
	Template string          `json:"template"`
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newRecordBody(req SaveRequest) (recordBody, error) {
	data, err := model.Marshal(req.Data)
	if err != nil {
		return recordBody{}, fmt.Errorf("encode resume data: %w", err)
	}
	return recordBody{UserID: req.UserID, Title: req.Title, Data: data, Template: req.Template}, nil
}

// Create posts a new resume.
func (c *APIClient) Create(ctx context.Context, req SaveRequest) (resumes.Resume, error) {
	body, err := newRecordBody(req)
	if err != nil {
		return resumes.Resume{}, err
	}
	var out resumes.Resume
	err = c.do(ctx, http.MethodPost, "/api/resumes", body, &out)
	return out, err
}

// Update replaces the title, data and template of resume id.
func (c *APIClient) Update(ctx context.Context, id int64, req SaveRequest) (resumes.Resume, error) {
	body, err := newRecordBody(req)
	if err != nil {
		return resumes.Resume{}, err
	}
	// The owner is fixed at creation.
	body.UserID = nil
	var out resumes.Resume
	err = c.do(ctx, http.MethodPut, resumePath(id), body, &out)
	return out, err
}

// Get fetches resume id.
func (c *APIClient) Get(ctx context.Context, id int64) (resumes.Resume, error) {
	var out resumes.Resume
	err := c.do(ctx, http.MethodGet, resumePath(id), nil, &out)
	return out, err
}

// List fetches the resumes of userID; empty means the anonymous owner.
func (c *APIClient) List(ctx context.Context, userID string) ([]resumes.Resume, error) {
	path := "/api/resumes"
	if userID != "" {
		path += "?" + url.Values{"userId": {userID}}.Encode()
	}
	var out []resumes.Resume
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes resume id.
func (c *APIClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, resumePath(id), nil, nil)
}

func resumePath(id int64) string {
	return "/api/resumes/" + strconv.FormatInt(id, 10)
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}
	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message
	if len(env.Error.Details) > 0 {
		var fields []model.FieldError
		if json.Unmarshal(env.Error.Details, &fields) == nil {
			apiErr.Fields = fields
		}
	}
	return apiErr
}

var _ Saver = (*APIClient)(nil)
