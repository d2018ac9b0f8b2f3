package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Server    ServerConfig    `json:"server"`
	Providers ProvidersConfig `json:"providers"`
	Pipeline  PipelineConfig  `json:"pipeline"`
	Media     MediaConfig     `json:"media"`
	Voice     VoiceConfig     `json:"voice"`
	Sessions  SessionsConfig  `json:"sessions"`
	Leads     LeadsConfig     `json:"leads"`
	Channels  ChannelsConfig  `json:"channels"`
	Logging   LoggingConfig   `json:"logging"`
	mu        sync.RWMutex
}

type ServerConfig struct {
	Host string `json:"host" env:"LEADPILOT_SERVER_HOST"`
	Port int    `json:"port" env:"LEADPILOT_SERVER_PORT"`
}

type ProvidersConfig struct {
	OpenRouter OpenRouterConfig `json:"openrouter"`
	OpenAI     OpenAIConfig     `json:"openai"`
}

type OpenRouterConfig struct {
	APIKey  string `json:"api_key" env:"LEADPILOT_PROVIDERS_OPENROUTER_API_KEY"`
	APIBase string `json:"api_base" env:"LEADPILOT_PROVIDERS_OPENROUTER_API_BASE"`
	Proxy   string `json:"proxy,omitempty" env:"LEADPILOT_PROVIDERS_OPENROUTER_PROXY"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key" env:"LEADPILOT_PROVIDERS_OPENAI_API_KEY"`
	APIBase string `json:"api_base" env:"LEADPILOT_PROVIDERS_OPENAI_API_BASE"`
	Proxy   string `json:"proxy,omitempty" env:"LEADPILOT_PROVIDERS_OPENAI_PROXY"`
}

type PipelineConfig struct {
	Provider       string  `json:"provider" env:"LEADPILOT_PIPELINE_PROVIDER"`
	Model          string  `json:"model" env:"LEADPILOT_PIPELINE_MODEL"`
	MaxTokens      int     `json:"max_tokens" env:"LEADPILOT_PIPELINE_MAX_TOKENS"`
	Temperature    float64 `json:"temperature" env:"LEADPILOT_PIPELINE_TEMPERATURE"`
	TimeoutSeconds int     `json:"timeout_seconds" env:"LEADPILOT_PIPELINE_TIMEOUT_SECONDS"`
	ContactLine    string  `json:"contact_line" env:"LEADPILOT_PIPELINE_CONTACT_LINE"`
}

type MediaConfig struct {
	TranscriptionModel string `json:"transcription_model" env:"LEADPILOT_MEDIA_TRANSCRIPTION_MODEL"`
	VisionModel        string `json:"vision_model" env:"LEADPILOT_MEDIA_VISION_MODEL"`
	ClassifierModel    string `json:"classifier_model" env:"LEADPILOT_MEDIA_CLASSIFIER_MODEL"`
}

type VoiceConfig struct {
	Enabled bool    `json:"enabled" env:"LEADPILOT_VOICE_ENABLED"`
	Model   string  `json:"model" env:"LEADPILOT_VOICE_MODEL"`
	Voice   string  `json:"voice" env:"LEADPILOT_VOICE_VOICE"`
	Speed   float64 `json:"speed" env:"LEADPILOT_VOICE_SPEED"`
}

type SessionsConfig struct {
	TTLMinutes    int    `json:"ttl_minutes" env:"LEADPILOT_SESSIONS_TTL_MINUTES"`
	MaxSessions   int    `json:"max_sessions" env:"LEADPILOT_SESSIONS_MAX_SESSIONS"`
	SweepSchedule string `json:"sweep_schedule" env:"LEADPILOT_SESSIONS_SWEEP_SCHEDULE"`
}

type LeadsConfig struct {
	DBPath string `json:"db_path" env:"LEADPILOT_LEADS_DB_PATH"`
}

type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
}

type DiscordConfig struct {
	Token     string              `json:"token" env:"LEADPILOT_CHANNELS_DISCORD_TOKEN"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"LEADPILOT_CHANNELS_DISCORD_ALLOW_FROM"`
}

type LoggingConfig struct {
	Level string `json:"level" env:"LEADPILOT_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 18890,
		},
		Providers: ProvidersConfig{
			OpenRouter: OpenRouterConfig{},
			OpenAI:     OpenAIConfig{},
		},
		Pipeline: PipelineConfig{
			Provider:       "openrouter",
			Model:          "openai/gpt-5.2",
			MaxTokens:      2048,
			Temperature:    0.7,
			TimeoutSeconds: 60,
			ContactLine:    "You can also reach our sales team directly at sales@example.com.",
		},
		Media: MediaConfig{
			TranscriptionModel: "whisper-1",
			VisionModel:        "openai/gpt-5.2",
			ClassifierModel:    "openai/gpt-5-mini",
		},
		Voice: VoiceConfig{
			Enabled: false,
			Model:   "tts-1",
			Voice:   "nova",
			Speed:   1.0,
		},
		Sessions: SessionsConfig{
			TTLMinutes:    240,
			MaxSessions:   10000,
			SweepSchedule: "*/30 * * * *",
		},
		Leads: LeadsConfig{
			DBPath: "~/.leadpilot/state/leads.db",
		},
		Channels: ChannelsConfig{
			Discord: DiscordConfig{
				Token:     "",
				AllowFrom: FlexibleStringSlice{},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if perr := env.Parse(cfg); perr != nil {
				return nil, perr
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfigPath is where LoadConfig looks when no --config flag is given.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leadpilot.json"
	}
	return filepath.Join(home, ".leadpilot", "config.json")
}

func (c *Config) GetAPIKey(provider string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch provider {
	case "openai":
		return c.Providers.OpenAI.APIKey
	default:
		return c.Providers.OpenRouter.APIKey
	}
}

func (c *Config) GetAPIBase(provider string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch provider {
	case "openai":
		if c.Providers.OpenAI.APIBase != "" {
			return c.Providers.OpenAI.APIBase
		}
		return "https://api.openai.com/v1"
	default:
		if c.Providers.OpenRouter.APIBase != "" {
			return c.Providers.OpenRouter.APIBase
		}
		return "https://openrouter.ai/api/v1"
	}
}

func (c *Config) GetProxy(provider string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch provider {
	case "openai":
		return c.Providers.OpenAI.Proxy
	default:
		return c.Providers.OpenRouter.Proxy
	}
}

func (c *Config) LeadsDBPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expandHome(c.Leads.DBPath)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
