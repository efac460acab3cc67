// Package cli implements the command-line interface for convey using cobra.
// It provides the interactive commit workflow, a plain-terminal variant of it,
// commit message linting, provider diagnostics and configuration inspection.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/buker/convey/internal/analysis"
	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/config"
	"github.com/buker/convey/internal/generator"
	"github.com/buker/convey/internal/git"
	"github.com/buker/convey/internal/logging"
	"github.com/buker/convey/internal/tui"
)

var (
	// Version is set at build time via -ldflags
	Version = "dev"

	rootCmd = &cobra.Command{
		Use:   "convey",
		Short: "Conventional commit messages, written with or without AI",
		Long: `convey helps you write Conventional Commits messages for your staged changes.

When run without subcommands, it performs the full workflow:
1. Read the staged diff, branch and recent history
2. Ask the first available AI provider for a message
3. Let you confirm, edit, or write the message yourself
4. Create the commit (and push it with --push)

If no provider is available or generation fails, you can always write the
message manually.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("provider", "p", "", "Preferred AI provider (ollama, openai, claude)")
	rootCmd.PersistentFlags().String("model", "", "Model for the preferred provider")
	rootCmd.PersistentFlags().BoolP("dry-run", "n", false, "Preview without committing")
	rootCmd.PersistentFlags().Bool("push", false, "Push the branch after committing")
	rootCmd.PersistentFlags().BoolP("manual", "m", false, "Skip AI and write the message manually")

	rootCmd.Flags().Bool("no-tui", false, "Use plain terminal prompts instead of the TUI")

	// Add subcommands
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns any error encountered.
// This is the main entry point for the CLI application.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig merges defaults, the config file, environment variables and the
// flags of cmd into a validated Config. The --model flag is applied to the
// preferred provider.
func loadConfig(cmd *cobra.Command) (*config.Loader, *config.Config, error) {
	loader := config.NewLoader()
	if err := loader.Load(); err != nil {
		return nil, nil, err
	}
	loader.BindFlags(cmd)

	cfg, err := loader.Config()
	if err != nil {
		return nil, nil, err
	}
	if f := cmd.Flags().Lookup("model"); f != nil {
		cfg.AI.OverrideModel(f.Value.String())
	}
	return loader, cfg, nil
}

// workflow is everything the commit flows need, prepared once per run.
type workflow struct {
	cfg    *config.Config
	logger zerolog.Logger
	repo   *git.Repository
	files  []string
	rules  commit.Rules
	dryRun bool
	push   bool
	manual bool
}

// prepareWorkflow loads configuration and opens the repository. Git access
// failures and a missing staged change are fatal; everything after is not.
func prepareWorkflow(cmd *cobra.Command) (*workflow, error) {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	// Open git repository
	repo, err := git.OpenCurrent()
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	// Check for staged changes
	hasStagedChanges, err := repo.HasStagedChanges()
	if err != nil {
		return nil, fmt.Errorf("failed to check staged changes: %w", err)
	}
	if !hasStagedChanges {
		return nil, fmt.Errorf("%w. Use 'git add' to stage files", git.ErrNoStagedChanges)
	}

	files, err := repo.GetStagedFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	push, _ := cmd.Flags().GetBool("push")
	manual, _ := cmd.Flags().GetBool("manual")

	return &workflow{
		cfg:    cfg,
		logger: logging.New(os.Stderr),
		repo:   repo,
		files:  files,
		rules:  generator.RulesFromConfig(cfg.Commit),
		dryRun: dryRun,
		push:   push,
		manual: manual,
	}, nil
}

// suggestions returns the scope hints and form defaults derived from the
// staged paths.
func (w *workflow) suggestions() ([]string, commit.Fields) {
	scopes := analysis.SuggestScopes(w.files, w.cfg.Commit.Scopes)
	defaults := commit.Fields{
		Type:  analysis.SuggestType(w.files),
		Scope: analysis.SuggestScope(w.files),
	}
	return scopes, defaults
}

// proposer prepares the generation service and the provider context. It
// returns nil when the user asked for manual entry.
func (w *workflow) proposer() (func(ctx context.Context, status generator.StatusCallback) (*generator.Proposal, error), error) {
	if w.manual {
		return nil, nil
	}
	svc, err := generator.New(w.cfg, w.logger)
	if err != nil {
		return nil, err
	}
	dc, err := svc.CollectContext(w.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged changes: %w", err)
	}
	return func(ctx context.Context, status generator.StatusCallback) (*generator.Proposal, error) {
		svc.OnStatus(status)
		return svc.Generate(ctx, dc)
	}, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	noTUI, _ := cmd.Flags().GetBool("no-tui")
	if noTUI {
		return runCommit(cmd, args)
	}

	ctx := cmd.Context()
	w, err := prepareWorkflow(cmd)
	if err != nil {
		return err
	}
	generate, err := w.proposer()
	if err != nil {
		return err
	}

	scopes, defaults := w.suggestions()
	program := tui.NewProgram(tui.Options{
		Rules:    w.rules,
		Scopes:   scopes,
		Manual:   w.manual,
		Defaults: defaults,
	})
	if err := program.Run(ctx, generate); err != nil {
		return err
	}

	msg, ok := program.Message()
	if !program.IsConfirmed() || !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Commit cancelled.")
		return nil
	}

	return finishCommit(ctx, cmd.OutOrStdout(), w.repo, msg, w.dryRun, w.push)
}

// committer creates and publishes commits.
type committer interface {
	Commit(message string) (string, error)
	Push(ctx context.Context, remote string) error
}

// finishCommit writes the accepted message as a commit, or only prints it on
// a dry run, then pushes when asked to.
func finishCommit(ctx context.Context, out io.Writer, repo committer, msg commit.Message, dryRun, push bool) error {
	if dryRun {
		fmt.Fprintln(out, "Commit message:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, indent(msg.Format()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Dry run - commit not created.")
		return nil
	}

	// Create the commit
	hash, err := repo.Commit(msg.Format())
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	fmt.Fprintf(out, "Created commit: %s %s\n", shortHash(hash), msg.Header())

	if !push {
		return nil
	}
	fmt.Fprintln(out, "Pushing...")
	if err := repo.Push(ctx, ""); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("push cancelled; commit %s was created", shortHash(hash))
		}
		return fmt.Errorf("commit %s was created but push failed: %w", shortHash(hash), err)
	}
	fmt.Fprintln(out, "Pushed.")
	return nil
}

// shortHash returns a shortened version of a git hash (first 8 chars).
// Returns the full hash if it's shorter than 8 characters.
func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "convey version %s\n", Version)
	},
}
