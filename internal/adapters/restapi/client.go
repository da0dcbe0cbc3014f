// Package restapi is a typed client for the resource backend. Every
// backend response arrives in a uniform status/data/error/meta
// envelope; the client unwraps it and turns error-bearing envelopes
// and non-2xx statuses into AppErrors.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/nptech/account-gateway/internal/errors"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues requests against one resource backend.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *slog.Logger
}

// NewClient creates a backend client. A nil HTTPClient gets a default
// with a 30 second timeout.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		hc:      hc,
		logger:  logger.With("adapter", "restapi"),
	}
}

// Meta carries the envelope's metadata block.
type Meta struct {
	APICode   string `json:"apiCode"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Hint      string `json:"hint"`
	Count     int    `json:"count"`
	Detail    string `json:"detail"`
}

// apiEnvelope is the backend's uniform response shape. Error stays raw
// because the backend may put a string, a record, or a structured
// report in it.
type apiEnvelope[T any] struct {
	Status string          `json:"status"`
	Data   *T              `json:"data"`
	Error  json.RawMessage `json:"error"`
	Meta   Meta            `json:"meta"`
	Detail string          `json:"detail"`
}

// PersistResponse is what the backend echoes for writes, deletes, and
// active-flag toggles.
type PersistResponse struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
	IsActive  bool      `json:"isActive"`
}

// actionBody identifies the record a destructive or state-toggling
// call targets. UpdatedAt lets the backend reject stale requests.
type actionBody struct {
	ID        string     `json:"id"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Entity is the minimal record shape the typed resource needs.
type Entity interface {
	EntityID() string
}

// Resource is a typed view over one backend collection path.
type Resource[T Entity] struct {
	c    *Client
	path string
}

// NewResource creates a resource view; path is relative, e.g. "profiles".
func NewResource[T Entity](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: strings.Trim(path, "/")}
}

// Get fetches a single record by id. A data-less envelope without an
// error means the record does not exist and yields (nil, nil).
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, apperrors.Validation("record id is required")
	}
	var env apiEnvelope[T]
	q := url.Values{"id": {id}}
	if err := r.c.do(ctx, http.MethodGet, r.path+"?"+q.Encode(), nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		if rawSet(env.Error) {
			return nil, envelopeError(env.Error, env.Meta, env.Detail)
		}
		return nil, nil
	}
	return env.Data, nil
}

// Find queries the collection's find endpoint and returns the matching
// records with the backend's total count. A missing data block counts
// as an empty result.
func (r *Resource[T]) Find(ctx context.Context, query url.Values) ([]T, int, error) {
	var env apiEnvelope[[]T]
	path := r.path + "/find"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if err := r.c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, 0, err
	}
	var records []T
	if env.Data != nil {
		records = *env.Data
	}
	return records, env.Meta.Count, nil
}

// IsAvailable reports whether name is free to use: no record holds it,
// or the record holding it is id itself.
func (r *Resource[T]) IsAvailable(ctx context.Context, id, name string) (bool, error) {
	if name == "" {
		return false, apperrors.Validation("record name is required")
	}
	records, count, err := r.Find(ctx, url.Values{"name": {name}})
	if err != nil {
		return false, err
	}
	if count == 0 || len(records) == 0 {
		return true, nil
	}
	return records[0].EntityID() == id, nil
}

// Persist creates or updates a record: POST when id is empty, PUT
// otherwise. Both verbs target the collection path; the backend reads
// the id from the body, so an update's body must carry it. The echoed
// persist outcome is returned.
func (r *Resource[T]) Persist(ctx context.Context, id string, body any) (*PersistResponse, error) {
	method := http.MethodPost
	if id != "" {
		method = http.MethodPut
	}
	var env apiEnvelope[PersistResponse]
	if err := r.c.do(ctx, method, r.path, body, &env); err != nil {
		return nil, err
	}
	return persistResult(env)
}

// Delete removes a record, passing the last-seen UpdatedAt so the
// backend can reject a stale delete.
func (r *Resource[T]) Delete(ctx context.Context, id string, updatedAt *time.Time) (*PersistResponse, error) {
	if id == "" {
		return nil, apperrors.Validation("record id is required")
	}
	var env apiEnvelope[PersistResponse]
	if err := r.c.do(ctx, http.MethodDelete, r.path, actionBody{ID: id, UpdatedAt: updatedAt}, &env); err != nil {
		return nil, err
	}
	return persistResult(env)
}

// DeactReact toggles a record's active flag through the backend's
// deact/react endpoints; reactivate selects react.
func (r *Resource[T]) DeactReact(ctx context.Context, id string, updatedAt time.Time, reactivate bool) (*PersistResponse, error) {
	action := "deact"
	if reactivate {
		action = "react"
	}
	var env apiEnvelope[PersistResponse]
	body := actionBody{ID: id, UpdatedAt: &updatedAt}
	if err := r.c.do(ctx, http.MethodPut, r.path+"/"+action, body, &env); err != nil {
		return nil, err
	}
	return persistResult(env)
}

func persistResult(env apiEnvelope[PersistResponse]) (*PersistResponse, error) {
	if env.Data == nil {
		if rawSet(env.Error) {
			return nil, envelopeError(env.Error, env.Meta, env.Detail)
		}
		return nil, apperrors.Remote("no response data found")
	}
	return env.Data, nil
}

// rawSet reports whether a raw JSON field holds an actual value.
func rawSet(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// envelopeError converts an error-bearing envelope into an AppError,
// preferring the human-readable metadata over the raw error payload.
func envelopeError(raw json.RawMessage, meta Meta, detail string) error {
	msg := meta.Message
	if msg == "" {
		msg = detail
	}
	if msg == "" {
		msg = string(raw)
	}
	return apperrors.Remote(msg)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRemote, "backend request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRemote, "failed to decode backend response")
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	msg := resp.Status
	var env apiEnvelope[json.RawMessage]
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&env); err == nil {
		switch {
		case env.Meta.Message != "":
			msg = env.Meta.Message
		case env.Detail != "":
			msg = env.Detail
		case rawSet(env.Error):
			msg = string(env.Error)
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Validation(msg)
	case http.StatusConflict:
		return apperrors.Conflict(msg)
	default:
		c.logger.Warn("backend error response",
			"status", resp.StatusCode,
			"path", resp.Request.URL.Path)
		return apperrors.Remote(fmt.Sprintf("backend returned %d: %s", resp.StatusCode, msg))
	}
}
