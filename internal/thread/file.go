package thread

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// LoadFile reads a thread from disk. An .eml file is parsed as a
// message; anything else is read as text in whatever charset it uses.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading thread file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".eml") {
		msg, err := ParseMessage(data)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		return Render([]Message{msg}), nil
	}

	return ToUTF8(data), nil
}

// ToUTF8 converts text of unknown encoding to UTF-8. Valid UTF-8 is
// returned unchanged; undetectable input is returned as-is.
func ToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return string(data)
	}

	enc, err := htmlindex.Get(res.Charset)
	if err != nil {
		return string(data)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
