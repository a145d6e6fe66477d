package thread

import (
	"sort"
	"strings"
)

const separator = "\n\n---\n\n"

// Render formats messages as plain text, oldest first. Messages with
// the same date keep their input order.
func Render(msgs []Message) string {
	sorted := make([]Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	parts := make([]string, 0, len(sorted))
	for _, m := range sorted {
		parts = append(parts, renderOne(m))
	}
	return strings.Join(parts, separator)
}

func renderOne(m Message) string {
	var sb strings.Builder

	if m.From != "" {
		sb.WriteString("From: " + m.From + "\n")
	}
	if len(m.To) > 0 {
		sb.WriteString("To: " + strings.Join(m.To, ", ") + "\n")
	}
	if !m.Date.IsZero() {
		sb.WriteString("Date: " + m.Date.Format("Mon, 02 Jan 2006 15:04") + "\n")
	}
	if m.Subject != "" {
		sb.WriteString("Subject: " + m.Subject + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.TrimSpace(m.Body))

	return sb.String()
}
