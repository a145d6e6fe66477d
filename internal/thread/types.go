// Package thread imports prior email conversations so a draft can
// continue them. Threads come from .eml files, plain-text files, or an
// IMAP mailbox.
package thread

import "time"

// Message is one email of a conversation.
type Message struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
	Body    string
}
