package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/output"
)

var detectCmd = &cobra.Command{
	Use:   "detect APP",
	Short: "Detect the UI elements of an application's window",
	Long: `Detect the interactive elements of APP's front window. In auto mode the
detectors run in priority order (accessibility, ai, ocr, heuristic) until one
returns real elements; --method all combines every detector; naming a single
method forces it.

Examples:
  desktop-locate detect Calculator
  desktop-locate detect Safari --method ai --format text
  desktop-locate detect Notes --method all --format json --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().String("method", "", "Detection method: auto, all, accessibility, ai, ocr, heuristic (default from config)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	method, _ := cmd.Flags().GetString("method")
	report, err := svc.Detect(cmd.Context(), args[0], method)
	if err != nil {
		return err
	}
	return output.Print(report)
}
