package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gmail-discord-notifier/internal/config"
	"gmail-discord-notifier/internal/discord"
	imapclient "gmail-discord-notifier/internal/imap"
	"gmail-discord-notifier/internal/logging"
	"gmail-discord-notifier/internal/watcher"
)

func main() {
	cfg, err := config.Load(config.EnvFile)
	if err != nil {
		logging.Log.Errorf("Configuration error: %v", err)
		printUsage()
		os.Exit(1)
	}

	logging.Log.Info("Starting Gmail to Discord notifier...")

	client := imapclient.NewStandardClient(config.IMAPAddr, cfg.GmailEmail, cfg.GmailAppPassword, config.Mailbox)
	notifier := discord.New(cfg.DiscordToken)
	w := watcher.NewWatcher(client, notifier, cfg.DiscordUserID)

	// Without a seeded baseline the notifier cannot tell new mail from old,
	// so a failed bootstrap aborts the process.
	if err := w.Bootstrap(); err != nil {
		logging.Log.Fatalf("Failed to initialize mail notifier: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Run(ctx)

	if err := client.Close(); err != nil {
		logging.Log.Errorf("Error closing IMAP session: %v", err)
	}
	logging.Log.Info("Mail notifier stopped")
}

// printUsage lists the environment variables the notifier needs.
func printUsage() {
	fmt.Fprintln(os.Stderr, "Required environment variables:")
	fmt.Fprintln(os.Stderr, "  DISCORD_TOKEN      - Your Discord bot token")
	fmt.Fprintln(os.Stderr, "  DISCORD_USER_ID    - Your Discord user ID")
	fmt.Fprintln(os.Stderr, "  GMAIL_EMAIL        - Your Gmail address")
	fmt.Fprintln(os.Stderr, "  GMAIL_APP_PASSWORD - Your Gmail app password (not your regular password!)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "They can also be provided via a .env file in the working directory.")
}
