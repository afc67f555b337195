package imap

import "gmail-discord-notifier/internal/models"

// Criteria selects which messages a mailbox search returns.
type Criteria int

const (
	// CriteriaAll matches every message in the mailbox.
	CriteriaAll Criteria = iota
	// CriteriaUnseen matches messages without the \Seen flag.
	CriteriaUnseen
)

type Client interface {
	Connect() error
	Reconnect() error
	Keepalive() error
	ListUIDs(criteria Criteria) ([]uint32, error)
	FetchMetadata(uid uint32) (*models.EmailMetadata, error)
	Close() error
}
