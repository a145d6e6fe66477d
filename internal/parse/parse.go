// Package parse extracts structured data from free-text model output.
// Every routine here is best-effort: the model is asked for a format but
// is never guaranteed to follow it, so malformed input degrades to an
// empty result instead of failing.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/prospector/internal/model"
)

// ErrNoJSONArray is the diagnostic returned when the text holds no
// bracketed span to decode.
var ErrNoJSONArray = errors.New("no JSON array found in response")

// Bullets returns the hyphen-prefixed lines of text in order, with the
// hyphen and surrounding whitespace removed. Other lines are dropped.
func Bullets(text string) []string {
	const primary = ""
	return Sections(text, primary)[primary]
}

// Sections splits hyphen-bulleted lines of text into named lists. A line
// that equals one of headers after trimming switches the current
// section; bullets seen before any header go to primary. Every header
// and primary are present in the result, possibly with an empty list.
func Sections(text, primary string, headers ...string) map[string][]string {
	out := make(map[string][]string, len(headers)+1)
	out[primary] = []string{}

	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
		out[h] = []string{}
	}

	current := primary
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if known[line] {
			current = line
			continue
		}
		item, ok := bullet(line)
		if !ok {
			continue
		}
		out[current] = append(out[current], item)
	}

	return out
}

// bullet strips the leading hyphen from a trimmed line. Lines that are
// only a hyphen carry no item.
func bullet(line string) (string, bool) {
	if !strings.HasPrefix(line, "-") {
		return "", false
	}
	item := strings.TrimSpace(line[1:])
	if item == "" {
		return "", false
	}
	return item, true
}

// CaseStudies decodes the first-to-last bracketed span of text as a JSON
// array of case studies. The returned slice is never nil. A non-nil
// error is a diagnostic for logging only; the slice is empty in that
// case.
func CaseStudies(text string) ([]model.CaseStudy, error) {
	span, ok := bracketSpan(text)
	if !ok {
		return []model.CaseStudy{}, ErrNoJSONArray
	}

	var studies []model.CaseStudy
	if err := json.Unmarshal([]byte(span), &studies); err != nil {
		return []model.CaseStudy{}, fmt.Errorf("decoding case studies: %w", err)
	}
	if studies == nil {
		studies = []model.CaseStudy{}
	}
	return studies, nil
}

// bracketSpan returns text from the leftmost '[' through the rightmost
// ']'. It assumes one array with no stray brackets around it.
func bracketSpan(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
