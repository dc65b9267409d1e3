package cmd

import (
	"fmt"
	"os"

	"reposcope/config"
	"reposcope/engine"
	"reposcope/logging"
	"reposcope/repo"

	"github.com/spf13/cobra"
)

var (
	repoURL string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "reposcope",
	Short: "Repository-aware code analysis and generation engine",
	Long: `Reposcope clones a remote repository into an in-memory filesystem,
assembles a token-bounded context from its most relevant files, and
drives LLM workflows over it: analysis, generation, editing and
autonomous modification.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&repoURL, "repo", "r", "", "Repository URL (host/owner/name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(gentestsCmd)
	rootCmd.AddCommand(statusCmd)
}

// setup loads configuration, configures logging and builds an engine.
func setup() (*engine.Engine, *config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logging.Level(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	logging.Configure(level, os.Stderr)

	return engine.New(cfg), cfg, nil
}

// setupWithRepo builds an engine and loads the --repo repository,
// printing clone progress to stderr.
func setupWithRepo() (*engine.Engine, error) {
	eng, _, err := setup()
	if err != nil {
		return nil, err
	}

	if repoURL == "" {
		return nil, fmt.Errorf("no repository given (use --repo host/owner/name)")
	}

	onProgress := func(percent int, stage string) {
		fmt.Fprintf(os.Stderr, "\r[%3d%%] %s", percent, stage)
		if percent == 100 {
			fmt.Fprintln(os.Stderr)
		}
	}

	meta, err := eng.LoadRepository(rootCmd.Context(), repoURL, repo.ProgressFunc(onProgress))
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Loaded %s/%s (%d stars)\n", meta.Owner, meta.Name, meta.StarCount)
	return eng, nil
}
