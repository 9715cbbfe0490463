package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search donors",
	Long: `Performs semantic search over the organisation's donors.
The query is embedded and matched against donor profiles; when vector
confidence is low, a keyword lookup on names and emails fills in.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	addOrgFlag(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	orgID, err := resolveOrg(cmd)
	if err != nil {
		return err
	}

	result, err := searchService.Search(context.Background(), args[0], orgID)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return errors.New("semantic search needs an embedding provider: run 'donoriq settings embedding'")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}

	return outputSearchTable(cmd, result)
}

func outputSearchJSON(cmd *cobra.Command, result *domain.DonorSearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result *domain.DonorSearchResult) error {
	if len(result.Donors) == 0 {
		cmd.Println("No donors found.")
		return nil
	}

	cmd.Printf("Results (%s):\n\n", result.Method)
	for i, match := range result.Donors {
		if match.Similarity != nil {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, match.Donor.Name, *match.Similarity)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, match.Donor.Name)
		}
		if match.Donor.Email != "" {
			cmd.Printf("      %s\n", match.Donor.Email)
		}
		if match.Donor.LifetimeValue != nil {
			cmd.Printf("      Lifetime giving: $%.2f", *match.Donor.LifetimeValue)
			if match.Donor.LastGiftDate != "" {
				cmd.Printf(", last gift %s", match.Donor.LastGiftDate)
			}
			cmd.Println()
		}
		cmd.Println()
	}

	if verbose {
		cmd.Printf("Vector rows: %d, threshold: %.2f", result.VectorCount, result.Threshold)
		if result.BestSimilarity != nil {
			cmd.Printf(", best similarity: %.2f", *result.BestSimilarity)
		}
		cmd.Println()
	}

	return nil
}
