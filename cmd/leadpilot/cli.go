package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func executeCLI() error {
	return buildRootCommand().Execute()
}

func buildRootCommand() *cobra.Command {
	var (
		showVersion bool
		configPath  string
	)

	root := &cobra.Command{
		Use:   "leadpilot",
		Short: "Conversational sales engine with lead capture, escalation, and enrichment",
		Long: strings.TrimSpace(`leadpilot runs a session-scoped sales assistant.

It ingests multi-modal chat turns over HTTP or Discord, accumulates a client
profile per session, and lets the model trigger lead capture, escalation,
company analysis, and voice replies through inline directives.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ~/.leadpilot/config.json)")

	root.AddCommand(newOnboardCommand(&configPath))
	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newChatCommand(&configPath))
	root.AddCommand(newLeadsCommand(&configPath))
	root.AddCommand(newStatusCommand(&configPath))
	root.AddCommand(newVersionCommand())

	return root
}

func newOnboardCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.leadpilot configuration",
		Example: "  leadpilot onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return onboardCmd(*configPath)
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP chat API (and Discord channel when configured)",
		Long:    "Start the turn-processing server, session sweeper, event recorder, and any configured chat channels.",
		Example: "  leadpilot serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd(*configPath)
		},
	}
}

func newChatCommand(configPath *string) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant from the terminal",
		Example: strings.Join([]string{
			"  leadpilot chat",
			"  leadpilot chat --session cli:demo",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return chatCmd(*configPath, session)
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "cli:default", "Session key for continuity")
	return cmd
}

func newLeadsCommand(configPath *string) *cobra.Command {
	var (
		limit       int
		escalations bool
	)

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List captured leads or escalation events",
		Example: strings.Join([]string{
			"  leadpilot leads",
			"  leadpilot leads --escalations --limit 20",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return leadsCmd(*configPath, limit, escalations)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows to show")
	cmd.Flags().BoolVarP(&escalations, "escalations", "e", false, "Show escalation events instead of leads")
	return cmd
}

func newStatusCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show configuration and runtime readiness",
		Example: "  leadpilot status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return statusCmd(*configPath)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  leadpilot version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
