package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brianquiz/brianquiz/internal/app"
	"github.com/brianquiz/brianquiz/internal/llm"
	"github.com/brianquiz/brianquiz/internal/prefs"
	"github.com/brianquiz/brianquiz/internal/questiongen"
	"github.com/brianquiz/brianquiz/internal/ui/theme"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := prefs.LoadTheme(ctx, e.kv, prefs.Dark)
	if err != nil {
		e.log.Warn().Err(err).Msg("theme preference unreadable")
	}
	theme.Use(theme.ByName(string(t)))

	link, _ := cmd.Flags().GetString("import")
	deps := app.Deps{
		Accounts: e.accounts(),
		KV:       e.kv,
		Config:   e.cfg,
		Logger:   e.log,
		Import:   link,
	}

	if llmCfg, ok := e.cfg.LLMConfig(); ok {
		provider, err := llm.NewProvider(ctx, llmCfg, e.events, e.log)
		if err != nil {
			fmt.Fprintln(os.Stderr, "AI provider not configured:", err)
			fmt.Fprintln(os.Stderr, "AI question generation will be unavailable.")
		} else {
			deps.Generator = questiongen.New(provider, questiongen.DefaultConfig(), e.log)
			deps.AIProvider = llmCfg.Provider
		}
	}

	return app.Run(deps)
}
