// Package prompt assembles the natural-language prompts sent to the
// model. Every function here is pure: the same input always yields the
// same bytes, and missing optional data degrades to neutral text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/nhle/prospector/internal/model"
)

// Section headers the approach search asks the model to emit.
const (
	MarketingHeader = "MARKETING_NEWS"
	CompanyHeader   = "COMPANY_NEWS"
)

// MaxCaseStudies is how many case studies the search asks for.
const MaxCaseStudies = 5

const (
	refineIntro = "You are an expert sales copywriter. Your task is to revise an existing sales email " +
		"according to the user's instructions."
	threadIntro = "You are an AI assistant. Your primary and most critical task is to analyze the following " +
		"email thread and then draft a new email that seamlessly continues the conversation. " +
		"This provided thread is the single source of truth for our past conversation."
	threadWebSearch = "Use web search for current marketing or advertising topics ONLY if it directly supports " +
		"the goal of this email and fits the context of our conversation. Avoid generic trends."
	coldIntro = "You are a New Business Assistant, an expert in sales and marketing. Your task is to write " +
		"a compelling and professional email to a prospective client."
	coldNoThread = "No email thread was pasted. The email will be generated based on your goal and other " +
		"provided context."
)

// Build returns the prompt for c using the default tone table.
func Build(c model.DraftContext) string {
	return BuildWithTones(c, model.DefaultTones())
}

// BuildWithTones returns the prompt for c, describing the tone from
// tones when the label matches an entry.
func BuildWithTones(c model.DraftContext, tones []model.ToneOption) string {
	core := coreInstructions(c, tones)

	switch SelectMode(c) {
	case ModeRefine:
		return refinePrompt(c, core)
	case ModeThread:
		return threadPrompt(c, core)
	default:
		return coldPrompt(c, core)
	}
}

func refinePrompt(c model.DraftContext, core string) string {
	var sb strings.Builder

	sb.WriteString(refineIntro + "\n\n")
	sb.WriteString("**Previous Draft:**\n---\n")
	sb.WriteString(c.PreviousDraft)
	sb.WriteString("\n---\n\n")
	sb.WriteString("**Refinement Instructions:**\n")
	sb.WriteString(c.RefinementInstructions)
	sb.WriteString("\n\n")
	sb.WriteString("**Original Goal (for reference):**\n")
	sb.WriteString(c.Goal)
	sb.WriteString("\n\n")
	sb.WriteString(core)
	sb.WriteString("\n\n")
	sb.WriteString("Apply the refinement instructions while keeping everything else that works. " +
		"Return only the revised email.")

	return sb.String()
}

func threadPrompt(c model.DraftContext, core string) string {
	var sb strings.Builder

	sb.WriteString(threadIntro + "\n\n")
	sb.WriteString("**Primary Directive:**\n")
	sb.WriteString("Deeply analyze the email thread provided below. Your generated email MUST be a direct " +
		"and relevant continuation of this specific conversation. Reference points, questions, or agreements " +
		"mentioned in the thread to make the new email feel personal and informed. Do not generate a generic " +
		"sales email; your response must be grounded in the provided dialogue.\n\n")
	sb.WriteString("**Email Thread for Analysis:**\n---\n")
	sb.WriteString(c.EmailThread)
	sb.WriteString("\n---\n\n")
	sb.WriteString("**My Goal for this New Email:**\n")
	sb.WriteString("This is what I want to achieve. Use this to guide the call to action and the overall " +
		"message, while staying true to the conversation history from the thread above.\n")
	sb.WriteString(c.Goal)
	sb.WriteString("\n\n")
	sb.WriteString(core)
	sb.WriteString("\n\n")
	sb.WriteString("**Web Search (For enrichment):**\n")
	sb.WriteString(threadWebSearch + "\n\n")
	sb.WriteString("Based on your detailed analysis of the provided email thread, generate the new email now.")

	return sb.String()
}

func coldPrompt(c model.DraftContext, core string) string {
	var sb strings.Builder

	sb.WriteString(coldIntro + "\n\n")
	sb.WriteString(coldNoThread + "\n\n")
	sb.WriteString("Please draft a sales email based on the following information. Incorporate best practices " +
		"for sales outreach and use current information about marketing and advertising trends to make the " +
		"email relevant and impactful. The email should be clear, concise, and have a strong call to action.\n\n")
	sb.WriteString("**My Goal & Client Information:**\n")
	sb.WriteString(c.Goal)
	sb.WriteString("\n\n")
	sb.WriteString(core)
	sb.WriteString("\n\nGenerate the email now.")

	return sb.String()
}

// Approaches returns the dual-task prompt that asks for marketing angles
// and, when recipientCompany is known, recent news about that company.
func Approaches(goal, recipientCompany string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Based on the following client description and goal: \"%s\"\n\n", goal)
	sb.WriteString("Complete the following tasks and format the answer exactly as described.\n\n")

	sb.WriteString("Task 1: Find 3 to 5 current and relevant news stories, trends, or topics from the " +
		"advertising and marketing world that could be used as a compelling angle for a sales email. " +
		"List each as a concise, single sentence.\n\n")

	company := strings.TrimSpace(recipientCompany)
	if company != "" {
		fmt.Fprintf(&sb, "Task 2: Find 3 to 5 recent news items about the company \"%s\" "+
			"(announcements, launches, leadership changes, results) that could open a sales email. "+
			"List each as a concise, single sentence.\n\n", company)
	} else {
		sb.WriteString("Task 2: No recipient company was provided. Leave the " + CompanyHeader +
			" section empty.\n\n")
	}

	sb.WriteString("Format your response as two sections. Put the line " + MarketingHeader +
		" on its own before the Task 1 items and the line " + CompanyHeader +
		" on its own before the Task 2 items. Start every item with a hyphen on a new line. " +
		"Do not include any other text, titles, or explanations.\n")
	sb.WriteString("For example:\n")
	sb.WriteString(MarketingHeader + "\n")
	sb.WriteString("- A recent study shows a 20% increase in consumer engagement with interactive video ads.\n")
	sb.WriteString("- The rise of AI-powered personalization is transforming e-commerce marketing strategies.\n")
	sb.WriteString(CompanyHeader + "\n")
	sb.WriteString("- The company announced a new flagship store opening in Berlin next spring.\n")

	return sb.String()
}

// CaseStudySearch returns the prompt for searching the indexed
// case-study library.
func CaseStudySearch(goal string) string {
	return fmt.Sprintf("Search the case-study library for up to %d case studies most relevant to this "+
		"client description and goal: \"%s\"\n\n"+
		"Respond with ONLY a JSON array. Each element must be an object with exactly two string fields, "+
		"\"title\" and \"summary\", where summary is two or three sentences. "+
		"Do not wrap the array in code fences and do not add any text before or after it. "+
		"If nothing is relevant, respond with [].", MaxCaseStudies, goal)
}
