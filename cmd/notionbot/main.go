package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"notionbot/internal/app"
	"notionbot/internal/config"
	"notionbot/internal/logging"
)

var (
	configPath string
	envFile    string
)

func main() {
	root := &cobra.Command{
		Use:           "notionbot",
		Short:         "Telegram bot that files messages and voice notes as Notion tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBot,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an optional YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start polling Telegram",
		RunE:  runBot,
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and list enabled features",
		RunE:  runCheck,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", envFile, err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialise application: %w", err)
	}
	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Info("bot stopped")
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	describe(cmd.OutOrStdout(), cfg)
	return nil
}

// describe prints the effective feature set without secrets.
func describe(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "configuration OK")
	fmt.Fprintf(w, "owner:         %d\n", cfg.Telegram.OwnerID)
	fmt.Fprintf(w, "allow list:    %s\n", idList(cfg.Telegram.AllowIDs))
	fmt.Fprintf(w, "notion host:   %s\n", cfg.Notion.Host)

	if cfg.TranscriptionEnabled() {
		fmt.Fprintf(w, "transcription: groq %s (%s)\n", cfg.Groq.TranscriptionModel, cfg.Groq.Language)
	} else {
		fmt.Fprintln(w, "transcription: disabled")
	}

	switch {
	case strings.TrimSpace(cfg.Gemini.APIKey) != "":
		fmt.Fprintf(w, "summaries:     gemini %s\n", cfg.Gemini.Model)
	case cfg.TranscriptionEnabled():
		fmt.Fprintf(w, "summaries:     groq %s\n", cfg.Groq.SummaryModel)
	default:
		fmt.Fprintln(w, "summaries:     disabled")
	}

	if cfg.Journal.Path != "" {
		fmt.Fprintf(w, "journal:       %s\n", cfg.Journal.Path)
	} else {
		fmt.Fprintln(w, "journal:       disabled")
	}
}

func idList(ids []int64) string {
	if len(ids) == 0 {
		return "owner only"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
