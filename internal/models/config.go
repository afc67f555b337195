package models

// Config represents the application configuration
type Config struct {
	DiscordToken     string `mapstructure:"discord_token"`
	DiscordUserID    string `mapstructure:"discord_user_id"`
	GmailEmail       string `mapstructure:"gmail_email"`
	GmailAppPassword string `mapstructure:"gmail_app_password"`
}
