package server

import (
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Transports accepted by Serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Transport string
	Port      int
}

// Server wraps the MCP server around a Service. Tool calls are serialized:
// they drive one pointer, one keyboard and one frontmost window.
type Server struct {
	svc        *Service
	logger     *zap.Logger
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// New creates an MCP server exposing svc's operations as tools.
func New(svc *Service, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "desktop-locate"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	s := &Server{svc: svc, logger: logger}
	s.mcp = mcpserver.NewMCPServer(cfg.Name, cfg.Version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	s.logger.Info("mcp server starting", zap.String("transport", cfg.Transport), zap.Int("port", cfg.Port))
	switch cfg.Transport {
	case "", TransportStdio:
		return mcpserver.ServeStdio(s.mcp)
	case TransportStreamableHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	methodDesc := mcp.Description("Detection method: auto (default), all, accessibility, ai, ocr or heuristic")

	// detect_elements
	s.mcp.AddTool(
		mcp.NewTool("detect_elements",
			mcp.WithDescription("Detect the interactive UI elements of an application's window. Returns a numbered element list with screen and normalized coordinates and a detection_id for follow-up actions."),
			mcp.WithString("app_name", mcp.Description("Application name (e.g. 'Safari', 'Calculator')"), mcp.Required()),
			mcp.WithString("force_method", methodDesc),
		),
		s.handleDetect,
	)

	// click_element
	s.mcp.AddTool(
		mcp.NewTool("click_element",
			mcp.WithDescription("Click a detected element by its 0-based index. The window position is re-resolved before clicking."),
			mcp.WithString("app_name", mcp.Description("Application name"), mcp.Required()),
			mcp.WithNumber("element_index", mcp.Description("0-based index into the detected element list"), mcp.Required()),
			mcp.WithString("detection_id", mcp.Description("detection_id from detect_elements; detection runs again when omitted or expired")),
			mcp.WithString("force_method", methodDesc),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
		),
		s.handleClick,
	)

	// type_text
	s.mcp.AddTool(
		mcp.NewTool("type_text",
			mcp.WithDescription("Type text into an application, optionally clicking a detected element first and pressing a key combo after."),
			mcp.WithString("app_name", mcp.Description("Application name"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Text to type")),
			mcp.WithString("key", mcp.Description("Key combo pressed after the text (e.g. 'enter', 'cmd+a')")),
			mcp.WithNumber("element_index", mcp.Description("0-based index of the element to focus before typing")),
			mcp.WithString("detection_id", mcp.Description("detection_id from detect_elements")),
			mcp.WithString("force_method", methodDesc),
		),
		s.handleType,
	)

	// focus_app
	s.mcp.AddTool(
		mcp.NewTool("focus_app",
			mcp.WithDescription("Bring an application to the foreground and report its window frame"),
			mcp.WithString("app_name", mcp.Description("Application name"), mcp.Required()),
		),
		s.handleFocus,
	)

	// annotated_screenshot
	s.mcp.AddTool(
		mcp.NewTool("annotated_screenshot",
			mcp.WithDescription("Capture an application's window with every detected element boxed and numbered (1-based, element_index + 1)."),
			mcp.WithString("app_name", mcp.Description("Application name"), mcp.Required()),
			mcp.WithString("detection_id", mcp.Description("detection_id from detect_elements")),
			mcp.WithString("force_method", methodDesc),
		),
		s.handleAnnotated,
	)
}
