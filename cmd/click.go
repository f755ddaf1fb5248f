package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/output"
	"github.com/mj1618/desktop-locate/internal/server"
)

var clickCmd = &cobra.Command{
	Use:   "click APP INDEX",
	Short: "Click a detected element by its 0-based index",
	Long: `Detect APP's elements and click the one at INDEX (0-based; the report's
numbered list starts at 1). The window frame is re-resolved right before the
click.

Examples:
  desktop-locate click Calculator 4
  desktop-locate click Finder 2 --button right
  desktop-locate click Notes 0 --double --method ocr`,
	Args: cobra.ExactArgs(2),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().String("method", "", "Detection method: auto, all, accessibility, ai, ocr, heuristic")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: element index %q is not an integer", server.ErrInvalidArgument, s)
	}
	return n, nil
}

func runClick(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	method, _ := cmd.Flags().GetString("method")
	button, _ := cmd.Flags().GetString("button")
	double, _ := cmd.Flags().GetBool("double")

	res, err := svc.Click(cmd.Context(), server.ClickParams{
		App:          args[0],
		ElementIndex: index,
		Mode:         method,
		Button:       button,
		Double:       double,
	})
	if err != nil {
		return err
	}
	return output.Print(res)
}
