package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-locate/internal/server"
	"github.com/mj1618/desktop-locate/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing detection and actuation tools",
	Long: `Start a Model Context Protocol (MCP) server exposing detect_elements,
click_element, type_text, focus_app and annotated_screenshot as tools.
Detections are kept in memory and can be referenced by detection_id.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-locate serve
  desktop-locate serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer cleanup()

	srvCfg := server.Config{
		Name:      "desktop-locate",
		Version:   version.Version,
		Transport: transport,
		Port:      port,
	}
	return server.New(svc, srvCfg, logger.Named("mcp")).Serve(srvCfg)
}
