// LeadPilot - Session-scoped conversational sales engine

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/dotsetgreg/leadpilot/pkg/bus"
	"github.com/dotsetgreg/leadpilot/pkg/channels"
	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/config"
	"github.com/dotsetgreg/leadpilot/pkg/directives"
	"github.com/dotsetgreg/leadpilot/pkg/engine"
	"github.com/dotsetgreg/leadpilot/pkg/leads"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
	"github.com/dotsetgreg/leadpilot/pkg/normalize"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
	"github.com/dotsetgreg/leadpilot/pkg/providers"
	"github.com/dotsetgreg/leadpilot/pkg/server"
	"github.com/dotsetgreg/leadpilot/pkg/signals"
	"github.com/dotsetgreg/leadpilot/pkg/voice"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "leadpilot"

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	if buildTime != "" {
		fmt.Printf("  Build: %s\n", buildTime)
	}
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	fmt.Printf("  Go: %s\n", goVer)
}

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadConfig(path)
}

func validateRuntimeConfig(cfg *config.Config) error {
	if strings.TrimSpace(cfg.GetAPIKey(cfg.Pipeline.Provider)) == "" {
		return fmt.Errorf("providers.%s.api_key is required in %s or the matching LEADPILOT_ env var",
			providers.NormalizeProviderName(cfg.Pipeline.Provider), config.DefaultConfigPath())
	}
	return nil
}

// runtime bundles every long-lived component the serve and chat
// commands share.
type runtimeComponents struct {
	engine     *engine.Engine
	store      *profile.Store
	sweeper    *profile.Sweeper
	events     *bus.EventBus
	recorder   *bus.Recorder
	leadsStore *leads.SQLiteStore
}

func buildRuntime(cfg *config.Config) (*runtimeComponents, error) {
	provider, err := providers.CreateProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	providerName := providers.NormalizeProviderName(cfg.Pipeline.Provider)

	// Audio endpoints (transcription, TTS) are OpenAI-only; chat-based
	// collaborators ride the configured pipeline provider.
	transcriber := collab.NewWhisperTranscriber(
		cfg.GetAPIBase("openai"), cfg.GetAPIKey("openai"), cfg.Media.TranscriptionModel)
	describer := collab.NewVisionDescriber(provider, cfg.Media.VisionModel)
	docExtractor := collab.NewVisionExtractor(provider, cfg.Media.VisionModel)
	normalizer := normalize.NewNormalizer(transcriber, describer, docExtractor)

	classifier := collab.NewLLMClassifier(provider, cfg.Media.ClassifierModel)
	extractor := signals.NewExtractor(classifier)
	enricher := collab.NewLLMEnricher(provider, cfg.Media.ClassifierModel)

	store := profile.NewStore(profile.StoreOptions{
		MaxSessions: cfg.Sessions.MaxSessions,
		TTL:         time.Duration(cfg.Sessions.TTLMinutes) * time.Minute,
	})
	sweeper, err := profile.NewSweeper(store, cfg.Sessions.SweepSchedule)
	if err != nil {
		return nil, err
	}

	leadsStore, err := leads.NewSQLiteStore(cfg.LeadsDBPath())
	if err != nil {
		return nil, fmt.Errorf("open leads store: %w", err)
	}

	events := bus.NewEventBus()
	recorder := bus.NewRecorder(events, leadsStore)

	var synthesizer voice.Synthesizer
	if cfg.Voice.Enabled {
		synthesizer = voice.NewOpenAISynthesizer(
			cfg.GetAPIBase("openai"), cfg.GetAPIKey("openai"),
			voice.Options{
				Model: cfg.Voice.Model,
				Voice: cfg.Voice.Voice,
				Speed: cfg.Voice.Speed,
			})
	}

	dispatcher := directives.NewDispatcher(enricher, synthesizer, events)

	eng := engine.New(store, normalizer, extractor, enricher, enricher, provider, dispatcher,
		engine.Options{
			Model:        cfg.Pipeline.Model,
			MaxTokens:    cfg.Pipeline.MaxTokens,
			Temperature:  cfg.Pipeline.Temperature,
			ModelTimeout: time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
			ContactLine:  cfg.Pipeline.ContactLine,
		})

	logger.InfoCF("main", "Runtime assembled", map[string]interface{}{
		"provider":      providerName,
		"model":         cfg.Pipeline.Model,
		"voice_enabled": cfg.Voice.Enabled,
		"leads_db":      cfg.LeadsDBPath(),
	})

	return &runtimeComponents{
		engine:     eng,
		store:      store,
		sweeper:    sweeper,
		events:     events,
		recorder:   recorder,
		leadsStore: leadsStore,
	}, nil
}

func serveCmd(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	if err := validateRuntimeConfig(cfg); err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.leadsStore.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rt.sweeper.Run(ctx)
	go rt.recorder.Run(ctx)

	var discord *channels.DiscordChannel
	if strings.TrimSpace(cfg.Channels.Discord.Token) != "" {
		discord, err = channels.NewDiscordChannel(cfg.Channels.Discord, rt.engine)
		if err != nil {
			return fmt.Errorf("create discord channel: %w", err)
		}
		if err := discord.Start(ctx); err != nil {
			return fmt.Errorf("start discord channel: %w", err)
		}
	}

	srv := server.New(cfg.Server.Host, cfg.Server.Port, rt.engine, rt.store)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	fmt.Printf("✓ %s serving on %s:%d\n", appName, cfg.Server.Host, cfg.Server.Port)
	if discord != nil {
		fmt.Println("✓ Discord channel connected")
	}
	fmt.Println("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-sigCh:
	}

	fmt.Println("\nShutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnCF("main", "HTTP shutdown error", map[string]interface{}{"error": err.Error()})
	}
	if discord != nil {
		if err := discord.Stop(shutdownCtx); err != nil {
			logger.WarnCF("main", "Discord shutdown error", map[string]interface{}{"error": err.Error()})
		}
	}
	rt.events.Close()
	if dropped := rt.events.Dropped(); dropped > 0 {
		logger.WarnCF("main", "Events dropped during run", map[string]interface{}{"dropped": dropped})
	}
	fmt.Printf("✓ %s stopped\n", appName)
	return nil
}

func chatCmd(configPath, sessionID string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	if err := validateRuntimeConfig(cfg); err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.leadsStore.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rt.recorder.Run(ctx)

	if sessionID == "" {
		sessionID = "cli:default"
	}

	fmt.Printf("%s interactive chat (session %s, Ctrl+C to exit)\n\n", appName, sessionID)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".leadpilot_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		resp, err := rt.engine.ProcessTurn(context.Background(), &engine.TurnRequest{
			SessionID: sessionID,
			Messages:  []engine.IncomingMessage{{Role: "user", Content: input}},
		})
		if err != nil && resp == nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("\nLumen: %s\n", resp.Reply)
		if resp.LeadCollected {
			fmt.Printf("  [lead captured: %s]\n", resp.LeadData.Email)
		}
		if resp.Escalate {
			fmt.Printf("  [escalated: %s]\n", resp.EscalateReason)
		}
		fmt.Println()
	}
}

func leadsCmd(configPath string, limit int, showEscalations bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := leads.NewSQLiteStore(cfg.LeadsDBPath())
	if err != nil {
		return fmt.Errorf("open leads store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if showEscalations {
		events, err := store.ListEscalations(ctx, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No escalations recorded.")
			return nil
		}
		fmt.Printf("Escalations (%d):\n", len(events))
		for _, ev := range events {
			fmt.Printf("  %s  [%s]  %s\n", ev.RaisedAt.Format("2006-01-02 15:04"), ev.Urgency, ev.Reason)
			fmt.Printf("    session: %s\n", ev.SessionID)
			if ev.ConversationSummary != "" {
				fmt.Printf("    topics: %s\n", ev.ConversationSummary)
			}
		}
		return nil
	}

	captured, err := store.ListLeads(ctx, limit)
	if err != nil {
		return err
	}
	if len(captured) == 0 {
		fmt.Println("No leads captured.")
		return nil
	}
	fmt.Printf("Leads (%d):\n", len(captured))
	for _, lead := range captured {
		name := lead.Name
		if name == "" {
			name = "(no name)"
		}
		fmt.Printf("  %s  %s <%s>\n", lead.CapturedAt.Format("2006-01-02 15:04"), name, lead.Email)
		if lead.Company != "" {
			fmt.Printf("    company: %s\n", lead.Company)
		}
		fmt.Printf("    interest: %s  value: %s\n", lead.InterestLevel, lead.EstimatedValue)
		if lead.ConversationSummary != "" {
			fmt.Printf("    topics: %s\n", lead.ConversationSummary)
		}
	}
	return nil
}

func onboardCmd(configPath string) error {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add your API key to", configPath)
	fmt.Println("     Get one at: https://openrouter.ai/keys")
	fmt.Println("  2. (Optional) Add a Discord bot token to channels.discord.token")
	fmt.Println("  3. Chat locally: leadpilot chat")
	fmt.Println("  4. Run the server: leadpilot serve")
	return nil
}

func statusCmd(configPath string) error {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n\n", formatVersion())

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗ (using defaults + env)")
	}

	status := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "not set"
	}
	apiReady := strings.TrimSpace(cfg.GetAPIKey(cfg.Pipeline.Provider)) != ""
	discordReady := strings.TrimSpace(cfg.Channels.Discord.Token) != ""

	fmt.Printf("Provider: %s\n", providers.NormalizeProviderName(cfg.Pipeline.Provider))
	fmt.Printf("Model: %s\n", cfg.Pipeline.Model)
	fmt.Println("API key:", status(apiReady))
	fmt.Println("Discord token:", status(discordReady))
	fmt.Println("Voice:", status(cfg.Voice.Enabled))
	fmt.Println("Leads DB:", cfg.LeadsDBPath())
	fmt.Println("Server ready:", status(apiReady))
	return nil
}
