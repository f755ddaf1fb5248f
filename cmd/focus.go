package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/output"
)

var focusCmd = &cobra.Command{
	Use:   "focus APP",
	Short: "Bring an application to the foreground",
	Long:  "Activate APP and report the frame of its front window.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Focus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return output.Print(res)
}
