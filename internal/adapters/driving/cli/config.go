package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/env"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	configInitForce       bool
	configInitInteractive bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and create the configuration file.

Settings are layered, lowest precedence first: built-in defaults, the
config file, the .env file, SERCHA_RAG_* environment variables, then flags.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file",
	Long: `Write the effective settings to the config file.

Use --interactive to choose the embedding and generation providers step by step.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "choose providers interactively")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// openConfigStore opens the --config file, or the default one.
func openConfigStore() (*file.ConfigStore, error) {
	if configPath != "" {
		return file.OpenConfigStore(configPath)
	}
	return file.NewConfigStore("")
}

// resolveSettings layers defaults, the config file, the environment and
// flags, without validating the result.
func resolveSettings(cmd *cobra.Command) (domain.Settings, error) {
	store, err := openConfigStore()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load config: %w", err)
	}
	settings := file.LoadSettings(store, domain.DefaultSettings())

	envStore, err := env.NewStore(envFile)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load environment: %w", err)
	}
	settings = file.LoadSettings(envStore, settings)

	return file.LoadSettings(flagStore(cmd), settings), nil
}

// loadSettings resolves and validates the effective settings.
func loadSettings(cmd *cobra.Command) (domain.Settings, error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("%w. Run 'sercha-rag config show' to check settings", err)
	}
	return settings, nil
}

// flagStore collects explicitly set flags as configuration keys, so they
// overlay the other layers through the same loader.
func flagStore(cmd *cobra.Command) *memory.ConfigStore {
	store := memory.NewConfigStore()
	if docsDir != "" {
		_ = store.Set(file.KeyIngestDocsDir, docsDir)
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		_ = store.Set(file.KeyServerAddr, f.Value.String())
	}
	return store
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	printSettings(cmd, settings)

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sercha-rag config init --interactive' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printSettings(cmd *cobra.Command, s domain.Settings) {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", s.Server.Addr)
	cmd.Printf("  CORS origins: %s\n", s.Server.AllowOrigins)
	if s.Server.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", s.Server.RequestsPerSecond, s.Server.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Documents]")
	cmd.Printf("  Folder: %s\n", s.Ingest.DocsDir)
	cmd.Printf("  Extensions: %s\n", strings.Join(s.Ingest.Extensions, ", "))
	cmd.Printf("  Chunk size: %d (overlap %d)\n", s.Chunking.ChunkSize, s.Chunking.ChunkOverlap)
	cmd.Printf("  Top K: %d (max %d)\n", s.Retrieval.TopK, s.Retrieval.MaxTopK)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	printEndpoint(cmd, s.Embedding.Provider, s.Embedding.BaseURL, s.Embedding.APIKey)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", s.LLM.Model)
	printEndpoint(cmd, s.LLM.Provider, s.LLM.BaseURL, s.LLM.APIKey)
	cmd.Printf("  Max tokens: %d\n", s.LLM.MaxTokens)
	cmd.Printf("  Temperature: %g\n", s.LLM.Temperature)
	cmd.Printf("  Timeout: %s\n", s.LLM.Timeout)
	cmd.Printf("  Prompt template: %s\n", s.Prompt.Template)
	cmd.Println()
}

func printEndpoint(cmd *cobra.Command, provider domain.AIProvider, baseURL, apiKey string) {
	if provider == domain.AIProviderHashing {
		return
	}
	if baseURL == "" {
		baseURL = "(provider default)"
	}
	cmd.Printf("  Base URL: %s\n", baseURL)
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if _, err := os.Stat(store.Path()); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", store.Path())
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if configInitInteractive {
		reader := bufio.NewReader(cmd.InOrStdin())
		if err := configureEmbeddingProvider(cmd, reader, &settings.Embedding); err != nil {
			return err
		}
		if err := configureLLMProvider(cmd, reader, &settings.LLM); err != nil {
			return err
		}
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := file.SaveSettings(store, settings); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader, s *domain.EmbeddingSettings) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	s.Provider = selected
	s.Model = model
	s.APIKey = apiKey
	s.BaseURL = ""
	cmd.Printf("Embedding provider: %s (%s)\n\n", selected.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader, s *domain.LLMSettings) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	s.Provider = selected
	s.Model = model
	s.APIKey = apiKey
	s.BaseURL = ""
	cmd.Printf("LLM provider: %s (%s)\n\n", selected.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when in is a terminal,
// otherwise falls back to a plain line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
