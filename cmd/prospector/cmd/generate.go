package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/attachment"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
	"github.com/nhle/prospector/internal/thread"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a prospecting email",
	Long: `Draft a prospecting email from the command line.

The sender is taken from the profile saved in the terminal UI. Selected
case studies are given as "Title=Summary". With --previous and
--instructions the command refines an existing draft instead.`,
	Example: `  prospector generate --goal "Pitch our analytics suite to Initech's ops team" \
    --recipient-name Sam --recipient-company Initech --tone Direct`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}

		draft.Sender = loadSender(cmd.Context())

		svc := newService(logger)
		var res *model.GenerationResult
		if draft.IsRefinement() {
			res, err = svc.Refine(cmd.Context(), draft, draft.PreviousDraft, draft.RefinementInstructions)
		} else {
			if err := ai.ValidateGoal(draft.Goal, "generate an email"); err != nil {
				return err
			}
			res, err = svc.GenerateEmail(cmd.Context(), draft)
		}
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printGeneration(cmd.OutOrStdout(), res, asJSON)
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("goal", "", "who the client is and what you want to achieve")
	f.String("recipient-name", "", "recipient's name")
	f.String("recipient-company", "", "recipient's company")
	f.String("tone", model.DefaultTone, "tone of the email")
	f.String("thread", "", "file holding a prior email thread (.eml or text)")
	f.String("attachment", "", "supporting document ("+strings.Join(attachment.Extensions(), ", ")+")")
	f.String("marketing", "", "marketing approach to use")
	f.String("news", "", "company news angle to use")
	f.StringArray("case-study", nil, "case study as Title=Summary (repeatable)")
	f.String("previous", "", "file holding a draft to refine")
	f.String("instructions", "", "how to refine the previous draft")
	f.Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(generateCmd)
}

// draftFromFlags assembles a DraftContext from the command's flags.
func draftFromFlags(cmd *cobra.Command) (model.DraftContext, error) {
	f := cmd.Flags()
	goal, _ := f.GetString("goal")
	name, _ := f.GetString("recipient-name")
	company, _ := f.GetString("recipient-company")
	tone, _ := f.GetString("tone")
	marketing, _ := f.GetString("marketing")
	news, _ := f.GetString("news")
	studies, _ := f.GetStringArray("case-study")
	instructions, _ := f.GetString("instructions")

	d := model.DraftContext{
		Goal:                   strings.TrimSpace(goal),
		Tone:                   tone,
		RecipientName:          strings.TrimSpace(name),
		RecipientCompany:       strings.TrimSpace(company),
		MarketingApproach:      strings.TrimSpace(marketing),
		CompanyNews:            strings.TrimSpace(news),
		RefinementInstructions: strings.TrimSpace(instructions),
	}

	selection, err := parseCaseStudies(studies)
	if err != nil {
		return d, err
	}
	d.CaseStudies = selection

	if path, _ := f.GetString("thread"); path != "" {
		text, err := thread.LoadFile(path)
		if err != nil {
			return d, err
		}
		d.EmailThread = text
	}

	if path, _ := f.GetString("attachment"); path != "" {
		att, err := attachment.Read(path)
		if err != nil {
			return d, err
		}
		d.Attachment = att
	}

	if path, _ := f.GetString("previous"); path != "" {
		text, err := thread.LoadFile(path)
		if err != nil {
			return d, fmt.Errorf("reading previous draft: %w", err)
		}
		d.PreviousDraft = text
	}

	return d, nil
}

// parseCaseStudies turns "Title=Summary" values into a de-duplicated
// selection.
func parseCaseStudies(values []string) ([]model.CaseStudy, error) {
	var sel model.CaseStudySelection
	for _, v := range values {
		title, summary, _ := strings.Cut(v, "=")
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, fmt.Errorf("case study %q has no title", v)
		}
		sel.Add(model.CaseStudy{Title: title, Summary: strings.TrimSpace(summary)})
	}
	return sel.List(), nil
}

// loadSender returns the saved profile's sender block, or an empty
// sender when no profile is stored.
func loadSender(ctx context.Context) model.Sender {
	s, err := openStore()
	if err != nil {
		logger.Warn("profile unavailable", "err", err)
		return model.Sender{}
	}
	defer s.Close()

	p, err := s.LoadProfile(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("loading profile", "err", err)
		}
		return model.Sender{}
	}
	return p.Sender()
}

func printGeneration(w io.Writer, res *model.GenerationResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, res)
	}

	fmt.Fprintln(w, res.Text)
	if len(res.Sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for i, s := range res.Sources {
			fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, s.Title, s.URI)
		}
	}
	return nil
}
