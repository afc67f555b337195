package watcher

import (
	"context"
	"fmt"
	"time"

	"gmail-discord-notifier/internal/dedup"
	imapclient "gmail-discord-notifier/internal/imap"
	"gmail-discord-notifier/internal/logging"
	"gmail-discord-notifier/internal/models"
)

const (
	// PollInterval is the fixed cadence of inbox checks.
	PollInterval = 30 * time.Second
	// ReconnectCooldown is the flat wait after a failed reconnect attempt.
	ReconnectCooldown = 60 * time.Second
)

// Notifier delivers a rendered notification to a recipient.
type Notifier interface {
	SendDirectMessage(recipientID, content string) error
}

// Watcher polls a mailbox for messages that have not been observed before and
// forwards one notification per new message.
type Watcher struct {
	imapClient  imapclient.Client
	notifier    Notifier
	recipientID string
	seen        *dedup.Tracker
}

// NewWatcher creates a new Watcher instance with the provided IMAP client and notifier
func NewWatcher(imapClient imapclient.Client, notifier Notifier, recipientID string) *Watcher {
	return &Watcher{
		imapClient:  imapClient,
		notifier:    notifier,
		recipientID: recipientID,
		seen:        dedup.NewTracker(),
	}
}

// Bootstrap connects to the mailbox and records every message currently in it
// as already observed, so only mail arriving after startup gets notified. A
// failure here means the watcher must not start.
func (w *Watcher) Bootstrap() error {
	if err := w.imapClient.Connect(); err != nil {
		return err
	}

	uids, err := w.imapClient.ListUIDs(imapclient.CriteriaAll)
	if err != nil {
		return fmt.Errorf("seeding observed messages: %w", err)
	}

	for _, uid := range uids {
		w.seen.MarkSeen(uid)
	}

	logging.Log.Infof("Initialized with %d existing messages", w.seen.Count())
	return nil
}

// Run polls the mailbox until ctx is cancelled. The first cycle runs
// immediately; later cycles follow the fixed poll interval.
func (w *Watcher) Run(ctx context.Context) {
	logging.Log.Infof("Mail notifier started. Checking for new emails every %s", PollInterval)

	w.runCycle(ctx)

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle performs one poll. When the poll failed because the connection is
// gone it rebuilds the session with a single reconnect attempt; a failed
// reconnect waits out the cooldown before the schedule resumes.
func (w *Watcher) runCycle(ctx context.Context) {
	err := w.pollOnce()
	if err == nil {
		return
	}

	logging.Log.Errorf("Error checking emails: %v", err)

	if !imapclient.IsConnection(err) {
		return
	}

	logging.Log.Info("Connection issue detected, attempting to reconnect...")

	if err := w.imapClient.Reconnect(); err != nil {
		logging.Log.Errorf("Failed to reconnect: %v", err)
		sleepContext(ctx, ReconnectCooldown)
		return
	}

	logging.Log.Info("Successfully reconnected to IMAP server")
}

// pollOnce checks the mailbox once: keepalive, list unseen messages, then
// notify every message not observed before. Per-message failures are logged
// and skipped so one bad message cannot block the rest.
func (w *Watcher) pollOnce() error {
	if err := w.imapClient.Keepalive(); err != nil {
		return err
	}

	uids, err := w.imapClient.ListUIDs(imapclient.CriteriaUnseen)
	if err != nil {
		return err
	}

	for _, uid := range uids {
		if w.seen.Contains(uid) {
			continue
		}

		// Marked before sending, so a message is notified at most once even
		// when delivery fails.
		w.seen.MarkSeen(uid)

		if err := w.processMessage(uid); err != nil {
			logging.Log.Errorf("Failed to process email %d: %v", uid, err)
		}
	}

	return nil
}

// processMessage fetches the message metadata and forwards the notification.
func (w *Watcher) processMessage(uid uint32) error {
	meta, err := w.imapClient.FetchMetadata(uid)
	if err != nil {
		return err
	}

	locallog := logging.Log.WithField("trace_id", meta.TraceID)
	locallog.Infof("New email from: %s - Subject: %s", meta.From, meta.Subject)

	if err := w.notifier.SendDirectMessage(w.recipientID, FormatNotification(meta)); err != nil {
		return err
	}

	locallog.Info("Discord DM sent successfully")
	return nil
}

// FormatNotification renders the Discord message for one email.
func FormatNotification(meta *models.EmailMetadata) string {
	return fmt.Sprintf(
		"📧 **New Email Received!**\n\n**From:** %s\n**Subject:** %s\n**Date:** %s\n**UID:** %d",
		meta.From, meta.Subject, meta.Date, meta.UID,
	)
}

// sleepContext waits for d unless ctx is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
