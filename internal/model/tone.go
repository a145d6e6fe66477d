package model

import "strings"

// ToneOption pairs a tone label with a description used in prompts.
type ToneOption struct {
	Tone        string `mapstructure:"tone" yaml:"tone" json:"tone"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// DefaultTone is selected when the user has not picked one.
const DefaultTone = "Professional"

// DefaultTones is the built-in tone table.
func DefaultTones() []ToneOption {
	return []ToneOption{
		{Tone: "Professional", Description: "Polished and credible, respectful of the reader's time."},
		{Tone: "Friendly", Description: "Warm and approachable, like a note to a colleague you like."},
		{Tone: "Direct", Description: "Short sentences, gets to the point in the first line, one clear ask."},
		{Tone: "Persuasive", Description: "Builds a clear case around the prospect's problem and the payoff."},
		{Tone: "Casual", Description: "Relaxed and conversational without being sloppy."},
		{Tone: "Formal", Description: "Traditional business register suited to senior or conservative readers."},
	}
}

// LookupTone finds the option whose label matches tone, ignoring case
// and surrounding whitespace.
func LookupTone(tones []ToneOption, tone string) (ToneOption, bool) {
	want := strings.TrimSpace(tone)
	for _, t := range tones {
		if strings.EqualFold(t.Tone, want) {
			return t, true
		}
	}
	return ToneOption{}, false
}
