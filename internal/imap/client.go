package imap

import (
	"errors"
	"fmt"
	"time"

	"gmail-discord-notifier/internal/mailparse"
	"gmail-discord-notifier/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/charset"
)

func init() {
	// Decode envelope fields sent in non-UTF-8 charsets.
	imap.CharsetReader = charset.Reader
}

type StandardClient struct {
	addr     string
	username string
	password string
	mailbox  string

	client  *client.Client
	timeout time.Duration
}

// NewStandardClient creates a client for the given server and mailbox with a default timeout of 30 seconds for IMAP operations. No connection is made until Connect is called.
func NewStandardClient(addr, username, password, mailbox string) *StandardClient {
	return &StandardClient{
		addr:     addr,
		username: username,
		password: password,
		mailbox:  mailbox,
		timeout:  30 * time.Second,
	}
}

// Connect dials the server over TLS, authenticates and selects the mailbox. A failure at any step leaves no session behind and is reported as a connection-class error.
func (c *StandardClient) Connect() error {
	cl, err := client.DialTLS(c.addr, nil)
	if err != nil {
		return &SessionError{Op: "connect", Kind: KindConnection, Err: err}
	}

	if err := cl.Login(c.username, c.password); err != nil {
		_ = cl.Terminate()
		return &SessionError{Op: "login", Kind: KindConnection, Err: err}
	}

	if _, err := cl.Select(c.mailbox, false); err != nil {
		_ = cl.Terminate()
		return &SessionError{Op: "select", Kind: KindConnection, Err: err}
	}

	c.client = cl
	return nil
}

// Reconnect discards the current session handle and establishes a fresh one. The old handle is terminated best-effort and never reused.
func (c *StandardClient) Reconnect() error {
	if c.client != nil {
		_ = c.client.Terminate()
		c.client = nil
	}
	return c.Connect()
}

// Keepalive sends a NOOP to verify the session is still usable. It returns an error if the command fails or if there is no active connection.
func (c *StandardClient) Keepalive() error {
	if c.client == nil {
		return errNotConnected("noop")
	}
	if err := c.client.Noop(); err != nil {
		return fmt.Errorf("keepalive failed: %w", err)
	}
	return nil
}

// ListUIDs searches the selected mailbox and returns the UIDs of matching messages in mailbox order. An empty result is not an error.
func (c *StandardClient) ListUIDs(criteria Criteria) ([]uint32, error) {
	if c.client == nil {
		return nil, errNotConnected("search")
	}

	search := imap.NewSearchCriteria()
	switch criteria {
	case CriteriaUnseen:
		search.WithoutFlags = []string{imap.SeenFlag}
	default:
		// UID 1:* matches every message.
		all := new(imap.SeqSet)
		all.AddRange(1, 0)
		search.Uid = all
	}

	uids, err := c.client.UidSearch(search)
	if err != nil {
		return nil, fmt.Errorf("error searching for emails: %w", err)
	}

	return uids, nil
}

// FetchMetadata retrieves the envelope of the message with the given UID and
// normalizes it into notification metadata.
func (c *StandardClient) FetchMetadata(uid uint32) (*models.EmailMetadata, error) {
	if c.client == nil {
		return nil, errNotConnected("fetch")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid}

	prevTimeout := c.client.Timeout
	c.client.Timeout = c.timeout
	defer func() { c.client.Timeout = prevTimeout }()

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching message UID %d: %w", uid, err)
	}

	if msg == nil {
		return nil, &SessionError{
			Op:   "fetch",
			Kind: KindProtocol,
			Err:  fmt.Errorf("no message retrieved for UID %d", uid),
		}
	}

	return mailparse.MetadataFromMessage(msg), nil
}

// Close logs out from the IMAP server and closes the connection. If there is no active connection, it simply returns nil.
func (c *StandardClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Logout()
	c.client = nil
	return err
}

// A dead or absent session is connection-class so the poll loop keeps trying
// to rebuild it instead of stalling.
func errNotConnected(op string) error {
	return &SessionError{Op: op, Kind: KindConnection, Err: errors.New("not connected")}
}
