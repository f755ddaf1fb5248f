package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/config"
	"github.com/mj1618/desktop-locate/internal/logging"
	"github.com/mj1618/desktop-locate/internal/output"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/version"
)

// skipSetup marks commands that run without permissions or a provider.
const skipSetup = "skip-setup"

var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "desktop-locate",
	Short: "Detect and act on UI elements in desktop application windows",
	Long: `Locate the interactive elements of any application window using the
accessibility tree, a vision model, OCR or fixed heuristics, and click or type
into them by index. Run "desktop-locate serve" to expose the same operations
as MCP tools.`,
	SilenceUsage: true,
}

func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.desktop-locate/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, text")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flags directly to avoid conflicts with
		// subcommand local flags (e.g. annotate --format png/jpg).
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		l, err := logging.New(logging.Options{
			Level:   cfg.Log.Level,
			Verbose: verbose,
			File:    cfg.Log.File,
			Console: strings.EqualFold(cfg.Log.Format, "console"),
		})
		if err != nil {
			return err
		}
		logger = l

		if cmd.Annotations[skipSetup] == "" && platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}
		return nil
	}
}
