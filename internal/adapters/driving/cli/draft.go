package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
)

var draftPurpose string

var draftCmd = &cobra.Command{
	Use:   "draft [donor-id]",
	Short: "Draft a donor letter",
	Long: `Drafts a personalised letter for a donor using the configured LLM.
Donor details are redacted before the prompt leaves the machine and
restored in the finished letter. The draft is logged as a touchpoint
on the donor's timeline.

Available purposes:
  thank_you - thank the donor for recent giving
  appeal    - re-engage a lapsed or lost donor`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVarP(&draftPurpose, "purpose", "p", "thank_you", "letter purpose (thank_you, appeal)")
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	if outreachService == nil {
		return errors.New("outreach service not configured")
	}

	if !driving.LetterPurpose(draftPurpose).IsValid() {
		return fmt.Errorf("unknown purpose %q (expected thank_you or appeal)", draftPurpose)
	}

	letter, err := outreachService.DraftLetter(
		context.Background(), args[0], driving.LetterPurpose(draftPurpose))
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("letter drafting needs an LLM provider: run 'donoriq settings llm'")
		}
		return fmt.Errorf("drafting letter failed: %w", err)
	}

	cmd.Printf("Draft (%s, donor stage: %s)\n", letter.Purpose, letter.Stage)
	cmd.Println("----------------------------------------")
	cmd.Println(letter.Body)
	cmd.Println("----------------------------------------")
	cmd.Println("Logged to the donor's timeline.")

	return nil
}
