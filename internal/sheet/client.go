// Package sheet talks to the spreadsheet-backed data service. The service
// exposes a single action-dispatch endpoint: every call POSTs an action name
// plus a payload and receives {"status": "success"|"error", data|message}.
package sheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
)

// Client wraps interactions with the authoritative data API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// dispatch posts an action with its payload and decodes the response data
// into out when non-nil.
func (c *Client) dispatch(ctx context.Context, action string, payload any, out any) error {
	body := map[string]any{"action": action}
	if payload != nil {
		body["payload"] = payload
	}
	if c.token != "" {
		body["token"] = c.token
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("sheet: encode %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("sheet: %s: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheet: %s: %w: %v", action, httpx.ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return fmt.Errorf("sheet: %s: %w: status %d: %s", action, httpx.ErrRemote, resp.StatusCode, string(snippet))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("sheet: %s: decode: %w", action, err)
	}
	if env.Status != "success" {
		return fmt.Errorf("sheet: %s: %w: %s", action, httpx.ErrRemote, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("sheet: %s: decode data: %w", action, err)
		}
	}
	return nil
}

// ListRequests returns every travel request row.
func (c *Client) ListRequests(ctx context.Context) ([]RequestRecord, error) {
	var records []RequestRecord
	if err := c.dispatch(ctx, "list-requests", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListRequestsByYear returns travel requests filtered to a fiscal year.
func (c *Client) ListRequestsByYear(ctx context.Context, year int) ([]RequestRecord, error) {
	var records []RequestRecord
	payload := map[string]any{"year": year}
	if err := c.dispatch(ctx, "list-requests-by-year", payload, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRequest inserts a new travel request row.
func (c *Client) CreateRequest(ctx context.Context, rec RequestRecord) error {
	return c.dispatch(ctx, "create-request", rec, nil)
}

// UpdateRequest rewrites an existing travel request row.
func (c *Client) UpdateRequest(ctx context.Context, rec RequestRecord) error {
	return c.dispatch(ctx, "update-request", rec, nil)
}

// DeleteRequest removes a travel request row.
func (c *Client) DeleteRequest(ctx context.Context, id string) error {
	return c.dispatch(ctx, "delete-request", map[string]any{"id": id}, nil)
}

// GetDraft loads a saved draft by its token.
func (c *Client) GetDraft(ctx context.Context, token string) (DraftRecord, error) {
	var draft DraftRecord
	if err := c.dispatch(ctx, "get-draft", map[string]any{"token": token}, &draft); err != nil {
		return DraftRecord{}, err
	}
	return draft, nil
}

// SaveDraft stores an unsubmitted form under its token.
func (c *Client) SaveDraft(ctx context.Context, draft DraftRecord) error {
	return c.dispatch(ctx, "save-draft", draft, nil)
}

// ListMemos returns all send-paperwork memos.
func (c *Client) ListMemos(ctx context.Context) ([]MemoRecord, error) {
	var memos []MemoRecord
	if err := c.dispatch(ctx, "list-memos", nil, &memos); err != nil {
		return nil, err
	}
	return memos, nil
}

// CreateMemo inserts a memo row.
func (c *Client) CreateMemo(ctx context.Context, memo MemoRecord) error {
	return c.dispatch(ctx, "create-memo", memo, nil)
}

// UpdateMemo rewrites a memo row.
func (c *Client) UpdateMemo(ctx context.Context, memo MemoRecord) error {
	return c.dispatch(ctx, "update-memo", memo, nil)
}

// DeleteMemo removes a memo row.
func (c *Client) DeleteMemo(ctx context.Context, refNumber string) error {
	return c.dispatch(ctx, "delete-memo", map[string]any{"refNumber": refNumber}, nil)
}

// ListUsers returns all application users.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var users []UserRecord
	if err := c.dispatch(ctx, "list-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser inserts a user row.
func (c *Client) CreateUser(ctx context.Context, user UserRecord) error {
	return c.dispatch(ctx, "create-user", user, nil)
}

// UpdateUser rewrites a user row.
func (c *Client) UpdateUser(ctx context.Context, user UserRecord) error {
	return c.dispatch(ctx, "update-user", user, nil)
}

// DeleteUser removes a user row.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.dispatch(ctx, "delete-user", map[string]any{"username": username}, nil)
}

// VerifyCredentials loads the stored credential record for a username. The
// caller compares the password hash locally.
func (c *Client) VerifyCredentials(ctx context.Context, username string) (UserRecord, error) {
	var user UserRecord
	if err := c.dispatch(ctx, "verify-credentials", map[string]any{"username": username}, &user); err != nil {
		return UserRecord{}, err
	}
	return user, nil
}

// UploadFile stores a generated artifact (binary sent as base64 in JSON) and
// returns its public URL.
func (c *Client) UploadFile(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	payload := map[string]any{
		"filename": filename,
		"mimeType": mimeType,
		"content":  base64.StdEncoding.EncodeToString(data),
	}
	var result struct {
		URL string `json:"url"`
	}
	if err := c.dispatch(ctx, "upload-file", payload, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// SendEmail dispatches a notification email through the data service.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]any{"to": to, "subject": subject, "body": body}
	return c.dispatch(ctx, "send-notification-email", payload, nil)
}
