// Package voice synthesizes spoken replies through an OpenAI-compatible
// text-to-speech endpoint.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supported voices on the OpenAI TTS API.
const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Options struct {
	Model string  // tts-1 or tts-1-hd
	Voice string  // alloy, echo, nova, shimmer
	Speed float64 // 0.25 to 4.0
}

type OpenAISynthesizer struct {
	apiBase    string
	apiKey     string
	opts       Options
	httpClient *http.Client
}

func NewOpenAISynthesizer(apiBase, apiKey string, opts Options) *OpenAISynthesizer {
	if opts.Model == "" {
		opts.Model = "tts-1"
	}
	if opts.Voice == "" {
		opts.Voice = VoiceNova
	}
	if opts.Speed <= 0 {
		opts.Speed = 1.0
	}
	return &OpenAISynthesizer{
		apiBase:    strings.TrimRight(strings.TrimSpace(apiBase), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		opts:       opts,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty synthesis input")
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("voice API key not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model": s.opts.Model,
		"voice": s.opts.Voice,
		"speed": s.opts.Speed,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis request failed: status=%d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty synthesis response")
	}
	return audio, nil
}
