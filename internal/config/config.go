// Package config loads the bot configuration from an optional YAML file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"notionbot/internal/apperr"
	"notionbot/internal/logging"
)

// Config groups startup parameters for the bot runtime.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Notion   NotionConfig   `yaml:"notion"`
	Groq     GroqConfig     `yaml:"groq"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      logging.Config `yaml:"log"`
}

// TelegramConfig holds the bot token and the static access list.
type TelegramConfig struct {
	Token    string  `yaml:"token"`
	OwnerID  int64   `yaml:"owner_id"`
	AllowIDs []int64 `yaml:"allow_ids"`
}

// NotionConfig points at the task database.
type NotionConfig struct {
	Token  string `yaml:"token"`
	TaskDB string `yaml:"task_db"`
	Host   string `yaml:"host"`
}

// GroqConfig configures transcription and, unless Gemini is set, summaries.
type GroqConfig struct {
	Token              string `yaml:"token"`
	BaseURL            string `yaml:"base_url"`
	TranscriptionModel string `yaml:"transcription_model"`
	SummaryModel       string `yaml:"summary_model"`
	Language           string `yaml:"language"`
}

// GeminiConfig switches summaries to Google Gemini when APIKey is set.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// JournalConfig enables the SQLite task journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Defaults returns the configuration used before the file and env are read.
func Defaults() *Config {
	return &Config{
		Notion: NotionConfig{Host: "www.notion.so"},
		Groq: GroqConfig{
			BaseURL:            "https://api.groq.com/openai/v1",
			TranscriptionModel: "whisper-large-v3",
			SummaryModel:       "llama-3.3-70b-versatile",
			Language:           "ru",
		},
		Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		Log:    logging.Config{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path (skipped when empty or missing) and then
// applies environment overrides.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			expanded := os.Expand(string(data), func(key string) string {
				v, _ := lookup(key)
				return v
			})
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	str("NOTION_TOKEN", &c.Notion.Token)
	str("NOTION_TASK_DB", &c.Notion.TaskDB)
	str("NOTION_HOST", &c.Notion.Host)
	str("GROQ_TOKEN", &c.Groq.Token)
	str("GROQ_BASE_URL", &c.Groq.BaseURL)
	str("SUMMARY_MODEL", &c.Groq.SummaryModel)
	str("GEMINI_API_KEY", &c.Gemini.APIKey)
	str("GEMINI_MODEL", &c.Gemini.Model)
	str("JOURNAL_PATH", &c.Journal.Path)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("TELEGRAM_OWNER_ID"); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return &apperr.ConfigError{Key: "TELEGRAM_OWNER_ID", Reason: "not a number"}
		}
		c.Telegram.OwnerID = id
	}
	if v, ok := lookup("TELEGRAM_ALLOW_IDS"); ok && strings.TrimSpace(v) != "" {
		ids, err := ParseIDList(v)
		if err != nil {
			return &apperr.ConfigError{Key: "TELEGRAM_ALLOW_IDS", Reason: err.Error()}
		}
		c.Telegram.AllowIDs = ids
	}
	return nil
}

// ParseIDList parses a comma or whitespace separated list of Telegram ids.
func ParseIDList(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate ensures the configuration includes mandatory values. The allow
// list is optional; without it only the owner can create tasks.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return &apperr.ConfigError{Key: "TELEGRAM_BOT_TOKEN"}
	}
	if c.Telegram.OwnerID == 0 {
		return &apperr.ConfigError{Key: "TELEGRAM_OWNER_ID"}
	}
	if strings.TrimSpace(c.Notion.Token) == "" {
		return &apperr.ConfigError{Key: "NOTION_TOKEN"}
	}
	if strings.TrimSpace(c.Notion.TaskDB) == "" {
		return &apperr.ConfigError{Key: "NOTION_TASK_DB"}
	}
	if strings.TrimSpace(c.Notion.Host) == "" {
		return &apperr.ConfigError{Key: "NOTION_HOST", Reason: "must not be empty"}
	}
	return nil
}

// TranscriptionEnabled reports whether audio messages can be handled.
func (c *Config) TranscriptionEnabled() bool {
	return strings.TrimSpace(c.Groq.Token) != ""
}
