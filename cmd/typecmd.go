package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/output"
	"github.com/mj1618/desktop-locate/internal/server"
)

var typeCmd = &cobra.Command{
	Use:   "type APP [TEXT]",
	Short: "Type text or press a key combo in an application",
	Long: `Type TEXT into APP. With --index the element at that 0-based index is
detected and clicked first; --key presses a combo afterwards.

Examples:
  desktop-locate type Notes "hello world"
  desktop-locate type Safari "golang.org" --index 1 --key enter
  desktop-locate type TextEdit --key cmd+a`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().Int("index", -1, "0-based index of the element to click before typing")
	typeCmd.Flags().String("method", "", "Detection method used with --index")
	typeCmd.Flags().String("key", "", "Key combo pressed after the text (e.g. enter, cmd+a)")
}

func runType(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	method, _ := cmd.Flags().GetString("method")
	key, _ := cmd.Flags().GetString("key")
	p := server.TypeParams{App: args[0], Key: key, Mode: method}
	if len(args) > 1 {
		p.Text = args[1]
	}
	if cmd.Flags().Changed("index") {
		index, _ := cmd.Flags().GetInt("index")
		p.ElementIndex = &index
	}

	res, err := svc.Type(cmd.Context(), p)
	if err != nil {
		return err
	}
	return output.Print(res)
}
