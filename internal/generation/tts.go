package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Audio is one synthesized speech clip.
type Audio struct {
	AudioBase64 string `json:"audio_base64"`
	ContentType string `json:"content_type"`
}

// TTSClient synthesizes speech for room script steps. Results are cached
// per step id in memory for the duration of the session; audio is never
// persisted.
type TTSClient struct {
	cfg  Config
	http *http.Client

	mu    sync.Mutex
	cache map[string]Audio
}

// NewTTSClient creates a text-to-speech client for the given config.
func NewTTSClient(cfg Config) *TTSClient {
	return &TTSClient{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout()},
		cache: make(map[string]Audio),
	}
}

type ttsRequest struct {
	Text string `json:"text"`
}

// Synthesize returns audio for text, keyed by stepID. Repeated calls for the
// same step id return the cached clip without a network round trip.
func (c *TTSClient) Synthesize(ctx context.Context, stepID, text string) (Audio, error) {
	c.mu.Lock()
	if a, ok := c.cache[stepID]; ok {
		c.mu.Unlock()
		return a, nil
	}
	c.mu.Unlock()

	data, err := json.Marshal(ttsRequest{Text: text})
	if err != nil {
		return Audio{}, fmt.Errorf("marshaling tts request: %w", err)
	}

	url := c.cfg.TTSEndpoint + "/tts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return Audio{}, fmt.Errorf("creating tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Audio{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("reading tts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Audio{}, fmt.Errorf("tts service returned status %d: %s", resp.StatusCode, string(body))
	}

	var audio Audio
	if err := json.Unmarshal(body, &audio); err != nil {
		return Audio{}, fmt.Errorf("decoding tts response: %w", err)
	}

	c.mu.Lock()
	c.cache[stepID] = audio
	c.mu.Unlock()
	return audio, nil
}
