package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/buker/convey/internal/ai"
	"github.com/buker/convey/internal/config"
	"github.com/buker/convey/internal/generator"
	"github.com/buker/convey/internal/logging"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured AI providers and whether they are available",
	Long: `List the configured AI providers in the order they are tried, with the
model each one uses and whether it is reachable right now.`,
	RunE: runProviders,
}

func runProviders(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := generator.New(cfg, logging.New(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	listProviders(cmd.Context(), cmd.OutOrStdout(), cfg.AI, svc.Providers())
	return nil
}

// listProviders checks each provider in order and prints one line per provider.
func listProviders(ctx context.Context, out io.Writer, cfg config.AIConfig, providers []ai.Provider) {
	fmt.Fprintln(out, "Providers (in order of preference):")
	for i, p := range providers {
		start := time.Now()
		status, reason := "available", ""
		if err := ai.CheckAvailability(ctx, p); err != nil {
			status = "unavailable"
			var ue *ai.ProviderUnavailableError
			if errors.As(err, &ue) {
				reason = "  " + ue.Reason
			}
		}
		fmt.Fprintf(out, "  %d. %-8s %-12s %-28s (%s)%s\n",
			i+1, p.Name(), status, providerModel(cfg, p.Name()), time.Since(start).Round(time.Millisecond), reason)
	}
}

// providerModel returns the configured model of the named provider.
func providerModel(cfg config.AIConfig, name string) string {
	switch name {
	case config.ProviderOllama:
		return cfg.Ollama.Model
	case config.ProviderOpenAI:
		return cfg.OpenAI.Model
	case config.ProviderClaude:
		return cfg.Claude.Model
	}
	return ""
}
