// Package cli provides the sercha-rag command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Persistent flag values shared by every command.
var (
	configPath string
	envFile    string
	docsDir    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Answer questions from a folder of documents",
	Long: `sercha-rag loads the PDF and text documents in a folder, indexes them
for semantic search and answers questions grounded only on their content.

Run 'sercha-rag serve' to expose the HTTP API, or 'sercha-rag ask' for a
one-off answer from the command line.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.sercha-rag/config.toml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with SERCHA_RAG_* variables")
	flags.StringVar(&docsDir, "docs", "", "documents folder (overrides ingest.docs_dir)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
