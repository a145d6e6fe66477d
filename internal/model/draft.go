package model

import "strings"

// DefaultSenderName is used in prompts when the sender has not set a name.
const DefaultSenderName = "[Your Name]"

// Sender describes the person the drafted email is sent from.
type Sender struct {
	Name               string `json:"name"`
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty"`
}

// DisplayName returns the sender name, or DefaultSenderName when blank.
func (s Sender) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return DefaultSenderName
}

// Attachment is a user-supplied document passed to the model alongside
// the prompt. Data holds the base64-encoded file contents.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// DraftContext is the snapshot of everything the user has entered for a
// single generation call. It is assembled fresh for each call and never
// mutated by the generation service.
type DraftContext struct {
	// Goal is the free-form description of the client and objective.
	Goal string `json:"goal"`

	// EmailThread is the pasted or imported prior conversation.
	EmailThread string `json:"emailThread,omitempty"`

	Attachment *Attachment `json:"attachment,omitempty"`

	// Tone is an open label, matched against the tone table for a
	// description when possible.
	Tone string `json:"tone"`

	RecipientName    string `json:"recipientName,omitempty"`
	RecipientCompany string `json:"recipientCompany,omitempty"`

	Sender Sender `json:"sender"`

	// MarketingApproach and CompanyNews are the selected angles; at most
	// one of each.
	MarketingApproach string `json:"selectedMarketingApproach,omitempty"`
	CompanyNews       string `json:"selectedCompanyNews,omitempty"`

	CaseStudies []CaseStudy `json:"selectedCaseStudies,omitempty"`

	// KnowledgeBase is reference text fetched by the generation service.
	KnowledgeBase string `json:"-"`

	// PreviousDraft and RefinementInstructions switch prompt building
	// into refinement mode when both are set.
	PreviousDraft          string `json:"previousEmail,omitempty"`
	RefinementInstructions string `json:"refinementInstructions,omitempty"`
}

// IsRefinement reports whether both refinement fields are present.
func (c DraftContext) IsRefinement() bool {
	return strings.TrimSpace(c.PreviousDraft) != "" &&
		strings.TrimSpace(c.RefinementInstructions) != ""
}

// HasThread reports whether an email thread was supplied.
func (c DraftContext) HasThread() bool {
	return strings.TrimSpace(c.EmailThread) != ""
}
