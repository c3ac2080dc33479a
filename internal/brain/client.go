// Package brain is the client for the local language-model backend. One
// blocking call, three failure modes; the orchestrator translates failures
// into the lifecycle's error phase.
package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Failure modes distinguishable with errors.Is.
var (
	ErrConnection    = errors.New("cannot connect to brain")
	ErrTimeout       = errors.New("brain request timed out")
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Config configures the brain client.
type Config struct {
	URL          string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	Temperature  float64
	NumPredict   int
}

// DefaultConfig returns settings for a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		URL:          "http://localhost:11434/api/chat",
		Model:        "gptoss-agent",
		SystemPrompt: "You are a helpful voice assistant. Answer the user directly. Keep replies short, two sentences at most.",
		Timeout:      30 * time.Second,
		Temperature:  0.7,
		NumPredict:   512,
	}
}

// Client queries the model over the Ollama chat API.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a client. Zero-value fields in cfg fall back to defaults.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.NumPredict <= 0 {
		cfg.NumPredict = def.NumPredict
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// Ask sends prompt to the model and returns its reply. It blocks until the
// backend answers, the configured timeout elapses, or ctx is cancelled.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: c.cfg.Temperature,
			NumPredict:  c.cfg.NumPredict,
			Stop:        []string{"\nUser:", "\nYou:"},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log, then report unreachable.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		return "", fmt.Errorf("%w: backend returned %s", ErrConnection, resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding reply: %v", ErrConnection, err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrConnection, parsed.Error)
	}
	if parsed.Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Message.Content, nil
}

// classifyTransport maps a transport failure onto the package's sentinel
// errors.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// ShortError renders err as the short human-readable message shown in the
// error phase footer.
func ShortError(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "Neural link error: request timed out"
	case errors.Is(err, ErrEmptyResponse):
		return "Neural link error: model returned empty response"
	case errors.Is(err, ErrConnection):
		return "Neural link error: cannot connect. Is the backend running?"
	}
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return "Neural link error: " + msg
}
