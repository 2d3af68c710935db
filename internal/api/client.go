package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/crestbank/crest-console/internal/session"
)

// Client is the shared transport under the role-scoped facades. It joins the
// base URL with endpoint paths, encodes request bodies, attaches the bearer
// credential, and maps non-2xx responses to *Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client bound to sess. The session is consulted
// on every outgoing request, so a token stored after construction is picked
// up without rebuilding the client. When httpClient is nil a default client
// is used; no timeout is configured beyond the transport's own.
func NewClient(baseURL string, sess *session.Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Transport = &bearerTransport{
		next:    httpClient.Transport,
		session: sess,
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// bearerTransport attaches the session credential as an Authorization header
// when one is present; requests without a credential pass through unchanged.
type bearerTransport struct {
	next    http.RoundTripper
	session *session.Session
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	token, ok := t.session.Token()
	if !ok {
		return next.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return next.RoundTrip(cloned)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do issues the request and returns the raw body for 2xx responses. Other
// statuses are decoded into *Error with the body's message when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: extractMessage(raw)}
	}
	return raw, nil
}

// getJSON performs a GET and decodes the structured response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sendJSON performs a mutating call and decodes the structured message body.
func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, body any) (Message, error) {
	raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return Message{}, err
	}
	var msg Message
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Message{}, fmt.Errorf("decode response: %w", err)
		}
	}
	return msg, nil
}

// sendText performs a mutating call whose response body is plain text.
func (c *Client) sendText(ctx context.Context, method, path string, body any) (string, error) {
	raw, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// extractMessage pulls a human-readable message out of an error body. The
// server answers with {"message": ...} on structured endpoints and a bare
// string elsewhere; anything unreadable falls back to empty, which *Error
// replaces with the status code.
func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return ""
	}
	return text
}
