package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/imaging"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate APP",
	Short: "Capture a window with numbered element markers",
	Long: `Detect APP's elements and capture its window with every element boxed and
numbered. Numbers match the detect report (1-based).

Examples:
  desktop-locate annotate Calculator --output calc.png
  desktop-locate annotate Safari --format jpg --quality 70 --output safari.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().String("method", "", "Detection method: auto, all, accessibility, ai, ocr, heuristic")
	annotateCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	annotateCmd.Flags().String("format", "png", "Image format: png, jpg")
	annotateCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	outPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetInt("quality")

	format, err := imaging.ParseFormat(formatName)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	shot, err := svc.Annotate(cmd.Context(), args[0], "", method)
	if err != nil {
		return err
	}
	data, err := imaging.Encode(shot.Image, format, quality)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write annotated screenshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %d elements on %s to %s\n", shot.Elements, shot.Frame, outPath)
		return nil
	}
	fmt.Println(base64.StdEncoding.EncodeToString(data))
	return nil
}
