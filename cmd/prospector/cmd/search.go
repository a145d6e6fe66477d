package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/model"
)

var approachesCmd = &cobra.Command{
	Use:   "approaches",
	Short: "Suggest marketing approaches and company news angles",
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, _ := cmd.Flags().GetString("goal")
		company, _ := cmd.Flags().GetString("recipient-company")
		if err := ai.ValidateGoal(goal, "find approaches"); err != nil {
			return err
		}

		res, err := newService(logger).FindApproaches(cmd.Context(), goal, company)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printApproaches(cmd.OutOrStdout(), res, asJSON)
	},
}

var caseStudiesCmd = &cobra.Command{
	Use:   "case-studies",
	Short: "Search the case-study library for relevant past work",
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, _ := cmd.Flags().GetString("goal")
		if err := ai.ValidateGoal(goal, "search case studies"); err != nil {
			return err
		}

		studies, err := newService(logger).SearchCaseStudies(cmd.Context(), goal)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printCaseStudies(cmd.OutOrStdout(), studies, asJSON)
	},
}

func init() {
	approachesCmd.Flags().String("goal", "", "who the client is and what you want to achieve")
	approachesCmd.Flags().String("recipient-company", "", "recipient's company, for news angles")
	approachesCmd.Flags().Bool("json", false, "print the result as JSON")

	caseStudiesCmd.Flags().String("goal", "", "who the client is and what you want to achieve")
	caseStudiesCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(approachesCmd, caseStudiesCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printApproaches(w io.Writer, res *model.ApproachSearchResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, res)
	}
	if res.IsEmpty() {
		fmt.Fprintln(w, "No approaches found.")
		return nil
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w, title)
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	section("Marketing approaches:", res.Marketing)
	section("Company news:", res.Company)
	return nil
}

func printCaseStudies(w io.Writer, studies []model.CaseStudy, asJSON bool) error {
	if asJSON {
		return writeJSON(w, studies)
	}
	if len(studies) == 0 {
		fmt.Fprintln(w, "No case studies found.")
		return nil
	}
	for i, cs := range studies {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, cs.Title, cs.Summary)
	}
	return nil
}
