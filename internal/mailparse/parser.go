package mailparse

import (
	"fmt"
	"mime"
	"time"

	"gmail-discord-notifier/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/charset"
	"github.com/google/uuid"
)

// Placeholders shown when an envelope field is absent or unreadable.
const (
	UnknownSender = "Unknown Sender"
	NoSubject     = "No Subject"
	UnknownDate   = "Unknown Date"
)

var wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}

// MetadataFromMessage normalizes a fetched message envelope into the fields
// shown in a notification. Missing or undecodable fields degrade to
// placeholder text; this never fails.
func MetadataFromMessage(msg *imap.Message) *models.EmailMetadata {
	meta := &models.EmailMetadata{
		UID:     msg.Uid,
		From:    UnknownSender,
		Subject: NoSubject,
		Date:    UnknownDate,
		TraceID: uuid.New().String(),
	}

	env := msg.Envelope
	if env == nil {
		return meta
	}

	if len(env.From) > 0 && env.From[0] != nil {
		meta.From = FormatAddress(env.From[0])
	}

	if subject := DecodeHeader(env.Subject); subject != "" {
		meta.Subject = subject
	}

	if !env.Date.IsZero() {
		meta.Date = env.Date.Format(time.RFC1123Z)
	}

	return meta
}

// FormatAddress renders an envelope address as "Name <mailbox@host>" with a
// per-field placeholder for whatever the envelope left blank.
func FormatAddress(addr *imap.Address) string {
	name := DecodeHeader(addr.PersonalName)
	if name == "" {
		name = "Unknown"
	}

	mailbox := addr.MailboxName
	if mailbox == "" {
		mailbox = "unknown"
	}

	host := addr.HostName
	if host == "" {
		host = "unknown"
	}

	return fmt.Sprintf("%s <%s@%s>", name, mailbox, host)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text.
// Input that cannot be decoded is returned unchanged.
func DecodeHeader(encoded string) string {
	decoded, err := wordDecoder.DecodeHeader(encoded)
	if err != nil {
		return encoded
	}
	return decoded
}
