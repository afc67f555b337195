package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gmail-discord-notifier/internal/models"

	"github.com/spf13/viper"
)

// The notifier watches a single Gmail inbox over TLS; the endpoint and
// mailbox are fixed rather than configurable.
const (
	IMAPAddr = "imap.gmail.com:993"
	Mailbox  = "INBOX"
)

// EnvFile is the optional dotenv file merged beneath the process environment.
const EnvFile = ".env"

var requiredKeys = []string{
	"discord_token",
	"discord_user_id",
	"gmail_email",
	"gmail_app_password",
}

// Load builds the configuration from environment variables, with an optional
// dotenv file as fallback for values the environment does not provide. All
// four credentials are required; the returned error names every missing
// variable.
func Load(envFile string) (*models.Config, error) {
	v := viper.New()

	// Explicit binds so Unmarshal sees keys that only exist in the
	// environment.
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", envFile, err)
			}
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			missing = append(missing, strings.ToUpper(key))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if _, err := strconv.ParseUint(cfg.DiscordUserID, 10, 64); err != nil {
		return nil, fmt.Errorf("DISCORD_USER_ID must be a numeric Discord user id: %w", err)
	}

	return &cfg, nil
}
