package prompt

import (
	"fmt"
	"strings"

	"github.com/nhle/prospector/internal/model"
)

const (
	recipientPlaceholder = "the prospect"
	companyPlaceholder   = "their company"
)

// bannedPhrases are buzzwords the model must never use.
var bannedPhrases = []string{
	"synergy", "leverage", "circle back", "touch base", "game-changer",
	"cutting-edge", "best-in-class", "low-hanging fruit", "move the needle",
	"paradigm shift", "revolutionize", "seamless", "unlock", "deep dive",
	"I hope this email finds you well",
}

// block is one section of the core instructions. include decides
// whether the section applies to the context; render produces its text.
type block struct {
	name    string
	include func(model.DraftContext) bool
	render  func(model.DraftContext, []model.ToneOption) string
}

func always(model.DraftContext) bool { return true }

// coreBlocks is the fixed order of the core instructions: identity
// first, then angle, tone and style, then supporting material.
var coreBlocks = []block{
	{name: "sender", include: always, render: renderSender},
	{name: "recipient", include: always, render: renderRecipient},
	{name: "angle", include: always, render: renderAngle},
	{name: "case-studies", include: hasCaseStudies, render: renderCaseStudies},
	{name: "tone", include: always, render: renderTone},
	{name: "style", include: always, render: renderStyle},
	{name: "attachment", include: always, render: renderAttachment},
	{name: "knowledge-base", include: hasKnowledgeBase, render: renderKnowledgeBase},
}

// coreInstructions renders every applicable block in order.
func coreInstructions(c model.DraftContext, tones []model.ToneOption) string {
	var parts []string
	for _, b := range coreBlocks {
		if !b.include(c) {
			continue
		}
		parts = append(parts, b.render(c, tones))
	}
	return strings.Join(parts, "\n\n")
}

func renderSender(c model.DraftContext, _ []model.ToneOption) string {
	s := c.Sender
	var sb strings.Builder

	sb.WriteString("**Sender:**\n")
	sb.WriteString("The email is from ")
	sb.WriteString(s.DisplayName())
	if title := strings.TrimSpace(s.Title); title != "" {
		sb.WriteString(", " + title)
	}
	if company := strings.TrimSpace(s.Company); company != "" {
		sb.WriteString(" at " + company)
	}
	sb.WriteString(". Sign the email with this name.")

	if desc := strings.TrimSpace(s.CompanyDescription); desc != "" {
		sb.WriteString("\nAbout the sender's company:\n")
		sb.WriteString(desc)
		sb.WriteString("\nGround every value-proposition claim in this description. " +
			"Do not invent products, services, or results the company has not described.")
	}

	return sb.String()
}

func renderRecipient(c model.DraftContext, _ []model.ToneOption) string {
	name := strings.TrimSpace(c.RecipientName)
	if name == "" {
		name = recipientPlaceholder
	}
	company := strings.TrimSpace(c.RecipientCompany)
	if company == "" {
		company = companyPlaceholder
	}
	return fmt.Sprintf("**Recipient:**\nThe email is addressed to %s at %s.", name, company)
}

func renderAngle(c model.DraftContext, _ []model.ToneOption) string {
	marketing := strings.TrimSpace(c.MarketingApproach)
	news := strings.TrimSpace(c.CompanyNews)

	var body string
	switch {
	case marketing != "" && news != "":
		body = fmt.Sprintf("You MUST incorporate BOTH of the following angles into the email:\n"+
			"1. Marketing trend: \"%s\"\n"+
			"2. Company news: \"%s\"", marketing, news)
	case marketing != "":
		body = fmt.Sprintf("You MUST incorporate the following angle into the email: \"%s\"", marketing)
	case news != "":
		body = fmt.Sprintf("You MUST incorporate the following company news into the email: \"%s\"", news)
	default:
		body = "No angle was selected. Use your expertise to determine the best angle."
	}

	return "**Chosen Angle:**\n" + body
}

func hasCaseStudies(c model.DraftContext) bool {
	return len(c.CaseStudies) > 0
}

func renderCaseStudies(c model.DraftContext, _ []model.ToneOption) string {
	var sb strings.Builder

	sb.WriteString("**Case Studies (inspiration only):**\n")
	sel := model.NewCaseStudySelection(c.CaseStudies...)
	for i, cs := range sel.List() {
		fmt.Fprintf(&sb, "%d. Title: %s\n   Summary: %s\n", i+1, cs.Title, cs.Summary)
	}
	sb.WriteString("These case studies are for stylistic and strategic inspiration ONLY. " +
		"This is non-negotiable: do NOT name these case studies, do NOT claim the sender " +
		"or the sender's company wrote them, and do NOT imply the sender's company performed this work.")

	return sb.String()
}

func renderTone(c model.DraftContext, tones []model.ToneOption) string {
	label := strings.TrimSpace(c.Tone)
	if label == "" {
		label = model.DefaultTone
	}

	line := "**Tone:**\n" + label
	if opt, ok := model.LookupTone(tones, label); ok && opt.Description != "" {
		line += " - " + opt.Description
	}
	return line
}

func renderStyle(model.DraftContext, []model.ToneOption) string {
	return "**Style:**\n" +
		"Write in plain, jargon-free language, as one peer to another. " +
		"Keep it short and specific. Never use these words or phrases: " +
		strings.Join(bannedPhrases, ", ") + "."
}

func renderAttachment(c model.DraftContext, _ []model.ToneOption) string {
	if c.Attachment == nil {
		return "**Supporting Documents:**\nNo document context provided."
	}
	return fmt.Sprintf("**Supporting Documents:**\n"+
		"An external document named '%s' has been provided as additional context. "+
		"Please analyze it carefully along with other information.", c.Attachment.Name)
}

func hasKnowledgeBase(c model.DraftContext) bool {
	return strings.TrimSpace(c.KnowledgeBase) != ""
}

func renderKnowledgeBase(c model.DraftContext, _ []model.ToneOption) string {
	return "**Knowledge Base:**\n" +
		"Draw on the following reference material where relevant to add authority " +
		"and make the email more persuasive.\n---\n" +
		c.KnowledgeBase +
		"\n---"
}
