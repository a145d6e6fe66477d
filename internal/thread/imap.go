package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// ErrAuth is returned when the IMAP server rejects the credentials.
var ErrAuth = errors.New("IMAP authentication failed")

// IMAPConfig holds connection settings for an IMAP mailbox.
type IMAPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool
	Mailbox  string
}

// IMAPClient imports threads from an IMAP mailbox using go-imap v2.
type IMAPClient struct {
	cfg IMAPConfig
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(cfg IMAPConfig) *IMAPClient {
	if cfg.Port == "" {
		cfg.Port = "993"
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPClient{cfg: cfg}
}

// connect dials the server and authenticates. The caller must log out
// of the returned client.
func (c *IMAPClient) connect() (*imapclient.Client, error) {
	addr := c.cfg.Host + ":" + c.cfg.Port

	var client *imapclient.Client
	var err error

	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("%w for %s: %v", ErrAuth, c.cfg.Username, err)
	}

	return client, nil
}

// FetchThread returns up to limit of the most recent messages sent from
// or to correspondent, oldest first. A non-positive limit fetches all.
func (c *IMAPClient) FetchThread(ctx context.Context, correspondent string, limit int) ([]Message, error) {
	correspondent = strings.TrimSpace(correspondent)
	if correspondent == "" {
		return nil, errors.New("correspondent is required")
	}

	client, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(c.cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", c.cfg.Mailbox, err)
	}

	searchData, err := client.UIDSearch(correspondentCriteria(correspondent), nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// UIDs ascend with arrival, so the tail holds the newest.
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var msgs []Message
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data := fetchCmd.Next()
		if data == nil {
			break
		}

		buf, err := data.Collect()
		if err != nil {
			continue
		}

		raw := buf.FindBodySection(bodySection)
		if raw == nil {
			continue
		}

		msg, err := ParseMessage(raw)
		if err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}

	if err := fetchCmd.Close(); err != nil {
		return msgs, fmt.Errorf("fetching messages: %w", err)
	}

	return msgs, nil
}

// correspondentCriteria matches messages whose From or To header
// contains the address.
func correspondentCriteria(addr string) *imap.SearchCriteria {
	return &imap.SearchCriteria{
		Or: [][2]imap.SearchCriteria{{
			{Header: []imap.SearchCriteriaHeaderField{{Key: "From", Value: addr}}},
			{Header: []imap.SearchCriteriaHeaderField{{Key: "To", Value: addr}}},
		}},
	}
}
