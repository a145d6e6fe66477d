package thread

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const plainEML = "From: Sam Lee <sam@acme.test>\r\n" +
	"To: Jo <jo@brightside.test>\r\n" +
	"Subject: Re: Q3 campaign\r\n" +
	"Date: Tue, 03 Mar 2026 10:15:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Thanks for the deck. Can we talk budgets next week?\r\n"

const alternativeEML = "From: sam@acme.test\r\n" +
	"Subject: Hello\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=XYZ\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><head><style>p { color: red; }</style></head>" +
	"<body><p>Hi &eacute;mile &amp; team &#8212; thanks</p></body></html>\r\n" +
	"--XYZ--\r\n"

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(plainEML))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}

	if msg.From != "Sam Lee <sam@acme.test>" {
		t.Errorf("From = %q", msg.From)
	}
	if len(msg.To) != 1 || msg.To[0] != "Jo <jo@brightside.test>" {
		t.Errorf("To = %v", msg.To)
	}
	if msg.Subject != "Re: Q3 campaign" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "talk budgets") {
		t.Errorf("Body = %q", msg.Body)
	}
	if msg.Date.IsZero() {
		t.Error("Date not parsed")
	}
}

func TestParseMessage_HTMLOnly(t *testing.T) {
	msg, err := ParseMessage([]byte(alternativeEML))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.Body != "Hi émile & team — thanks" {
		t.Errorf("Body = %q", msg.Body)
	}
	if strings.Contains(msg.Body, "color") {
		t.Errorf("Body kept stylesheet text: %q", msg.Body)
	}
}

func TestParseMessage_MalformedPart(t *testing.T) {
	raw := "From: sam@acme.test\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=XYZ\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"this line is not a header\r\n" +
		"\r\n" +
		"body\r\n" +
		"--XYZ--\r\n"

	if _, err := ParseMessage([]byte(raw)); err == nil {
		t.Fatal("expected an error for a part with a malformed header")
	}
}

func TestRender_OldestFirst(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	got := Render([]Message{
		{From: "jo@b.test", Date: t2, Body: "second"},
		{From: "sam@a.test", Date: t1, Subject: "Intro", Body: "first\n"},
	})

	first := strings.Index(got, "first")
	second := strings.Index(got, "second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("messages out of order:\n%s", got)
	}
	if !strings.Contains(got, "Subject: Intro") || !strings.Contains(got, separator) {
		t.Errorf("unexpected rendering:\n%s", got)
	}
	if Render(nil) != "" {
		t.Error("empty thread should render as empty string")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	eml := filepath.Join(dir, "reply.eml")
	if err := os.WriteFile(eml, []byte(plainEML), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(eml)
	if err != nil {
		t.Fatalf("LoadFile(eml): %v", err)
	}
	if !strings.HasPrefix(got, "From: Sam Lee") || !strings.Contains(got, "talk budgets") {
		t.Errorf("LoadFile(eml) = %q", got)
	}

	txt := filepath.Join(dir, "thread.txt")
	if err := os.WriteFile(txt, []byte("plain thread"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := LoadFile(txt); err != nil || got != "plain thread" {
		t.Errorf("LoadFile(txt) = %q, %v", got, err)
	}
}

func TestToUTF8(t *testing.T) {
	if got := ToUTF8([]byte("héllo")); got != "héllo" {
		t.Errorf("valid UTF-8 changed: %q", got)
	}

	// "Café crème, très bien." in ISO-8859-1.
	latin1 := []byte{'C', 'a', 'f', 0xe9, ' ', 'c', 'r', 0xe8, 'm', 'e', ',', ' ', 't', 'r', 0xe8, 's', ' ', 'b', 'i', 'e', 'n', '.'}
	got := ToUTF8(latin1)
	if !utf8.ValidString(got) || !strings.HasPrefix(got, "Caf") {
		t.Errorf("ToUTF8 = %q", got)
	}
}

func TestCorrespondentCriteria(t *testing.T) {
	c := correspondentCriteria("sam@acme.test")
	if len(c.Or) != 1 {
		t.Fatalf("Or = %v", c.Or)
	}
	if c.Or[0][0].Header[0].Key != "From" || c.Or[0][1].Header[0].Key != "To" {
		t.Errorf("criteria = %+v", c.Or[0])
	}
}
