package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// BridgeConfig configures the HTTP cast bridge client.
type BridgeConfig struct {
	// URL is the bridge base address, e.g. http://localhost:8765.
	URL string
	// Language is the TTS language code sent with each utterance.
	Language string
	// Device is the friendly name of the target speaker.
	Device string
	// StopTimeout bounds the best-effort stop request.
	StopTimeout time.Duration
}

// DefaultBridgeConfig returns bridge settings for a local cast bridge.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Language:    "en",
		Device:      "Office",
		StopTimeout: 2 * time.Second,
	}
}

// Bridge speaks through a local HTTP cast bridge. POST /speak blocks until
// the device finishes playback; POST /stop aborts it. The bridge owns the
// cast session, keeping the wire protocol out of this process.
type Bridge struct {
	cfg  BridgeConfig
	http *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBridge creates a bridge client. The speak call carries no client
// timeout: playback length is unknown, cancellation comes from Stop or ctx.
func NewBridge(cfg BridgeConfig) *Bridge {
	def := DefaultBridgeConfig()
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = def.StopTimeout
	}
	return &Bridge{cfg: cfg, http: &http.Client{}}
}

type speakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Device   string `json:"device,omitempty"`
}

// Speak sends text to the bridge and blocks until playback completes.
func (b *Bridge) Speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	defer func() {
		cancel()
		b.mu.Lock()
		b.cancel = nil
		b.mu.Unlock()
	}()

	body, err := json.Marshal(speakRequest{Text: text, Language: b.cfg.Language, Device: b.cfg.Device})
	if err != nil {
		return fmt.Errorf("encoding utterance: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/speak"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		// A cancelled request is an interrupted playback, not a failure.
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: device %q not found", ErrUnreachable, b.cfg.Device)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bridge returned %s", ErrUnreachable, resp.Status)
	}
	return nil
}

// Stop aborts the in-flight speak request and tells the bridge to cut
// playback on the device.
func (b *Bridge) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	ctx, done := context.WithTimeout(context.Background(), b.cfg.StopTimeout)
	defer done()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/stop"), nil)
	if err != nil {
		return
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (b *Bridge) endpoint(path string) string {
	return strings.TrimRight(b.cfg.URL, "/") + path
}
