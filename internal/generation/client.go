package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Client provides access to the remote content generation service.
type Client interface {
	// Generate requests structured content for one plan item. The returned
	// payload is raw: callers must run it through the validator before
	// caching or rendering it.
	Generate(ctx context.Context, item content.Item) (json.RawMessage, error)
}

// httpClient implements Client against the focusroom generation HTTP API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that talks to the generation service over
// HTTP.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// generateRequest is the JSON body sent to POST /content/generate.
type generateRequest struct {
	ItemID  string          `json:"item_id"`
	Kind    content.Kind    `json:"kind"`
	Topic   string          `json:"topic"`
	Context generateContext `json:"context"`
	Domain  string          `json:"domain,omitempty"`
	Level   string          `json:"level,omitempty"`
	Lang    string          `json:"lang,omitempty"`
}

type generateContext struct {
	DayTitle string `json:"day_title"`
	DayIntro string `json:"day_intro,omitempty"`
}

// generateResponse is the JSON body returned by POST /content/generate.
type generateResponse struct {
	OK      bool            `json:"ok"`
	Content json.RawMessage `json:"content,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *httpClient) Generate(ctx context.Context, item content.Item) (json.RawMessage, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	body := generateRequest{
		ItemID: item.ID,
		Kind:   item.Kind,
		Topic:  item.Topic,
		Context: generateContext{
			DayTitle: item.DayTitle,
			DayIntro: item.DayIntro,
		},
		Domain: item.Domain,
		Level:  item.Level,
		Lang:   item.Lang,
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		raw, err := c.doRequest(ctx, body)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				ItemID:    item.ID,
				Kind:      item.Kind,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return raw, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout, and don't burn a
		// retry on a payload the service itself marked as failed.
		if ctx.Err() != nil || errors.Is(err, ErrInvalidContent) {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		ItemID:    item.ID,
		Kind:      item.Kind,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(ctx, lastErr),
	})

	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	if isConnectionError(lastErr) {
		return nil, ErrServiceUnavailable
	}
	if errors.Is(lastErr, ErrInvalidContent) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (c *httpClient) doRequest(ctx context.Context, body generateRequest) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/content/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation service returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidContent, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContent, resp.Error)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("%w: ok response with empty content", ErrInvalidContent)
	}

	return resp.Content, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil:
		return "TIMEOUT"
	case isConnectionError(err):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidContent):
		return "INVALID_CONTENT"
	case err == nil:
		return ""
	default:
		return "UNKNOWN"
	}
}
