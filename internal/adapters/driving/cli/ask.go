package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

var (
	askTopK    int
	askSources bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the documents folder",
	Long: `Loads the documents folder, then answers one question grounded only on
the most similar passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages to ground the answer on (default retrieval.top_k)")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the source documents")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc := services.NewQueryService(settings)
	report, cleanup, err := initPipeline(ctx, settings, svc, true)
	defer cleanup()
	if err != nil {
		return err
	}
	logReport(report)

	answer, err := svc.Ask(ctx, args[0], driving.AskOptions{TopK: askTopK})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		out := map[string]any{"answer": answer.Text}
		if askSources {
			out["sources"] = answer.Sources
		}
		if answer.Degraded {
			out["degraded"] = true
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(formatAnswer(answer, askSources, isTerminal(cmd.OutOrStdout())))
	return nil
}
