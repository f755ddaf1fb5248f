package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/actuate"
	"github.com/mj1618/desktop-locate/internal/detect"
	"github.com/mj1618/desktop-locate/internal/imaging"
	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/output"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/window"
)

// Error kinds reported in tool error payloads.
const (
	KindPermissionDenied = "permission_denied"
	KindWindowNotFound   = "window_not_found"
	KindBoundsUnresolved = "bounds_unresolved"
	KindParseFailed      = "parse_failed"
	KindDetectorFailed   = "detector_failed"
	KindNoElements       = "no_elements"
	KindIndexOutOfRange  = "index_out_of_range"
	KindActuationFailed  = "actuation_failed"
	KindInvalidArgument  = "invalid_argument"
	KindUnsupported      = "unsupported"
	KindInternal         = "internal"
)

// ErrorKind classifies err for callers. More specific kinds are checked
// first: a permission failure inside a detector is still permission_denied.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, platform.ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, actuate.ErrIndexOutOfRange):
		return KindIndexOutOfRange
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, window.ErrBoundsUnresolved), errors.Is(err, model.ErrFrameUnresolved):
		return KindBoundsUnresolved
	case errors.Is(err, platform.ErrWindowNotFound):
		return KindWindowNotFound
	case errors.Is(err, detect.ErrParseFailed):
		return KindParseFailed
	case errors.Is(err, detect.ErrDetectorFailed):
		return KindDetectorFailed
	case errors.Is(err, detect.ErrNoElements):
		return KindNoElements
	case errors.Is(err, platform.ErrActuationFailed):
		return KindActuationFailed
	case errors.Is(err, platform.ErrUnsupported):
		return KindUnsupported
	default:
		return KindInternal
	}
}

// errorPayload is the YAML body of a failed tool call.
type errorPayload struct {
	OK     bool   `yaml:"ok"`
	Action string `yaml:"action"`
	Kind   string `yaml:"kind"`
	Error  string `yaml:"error"`
}

type toolFunc func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// call is the tool boundary: it serializes calls, recovers panics and turns
// every error into a structured error result so no failure escapes as a
// protocol error.
func (s *Server) call(ctx context.Context, action string, request mcp.CallToolRequest, fn toolFunc) (result *mcp.CallToolResult, retErr error) {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", zap.String("tool", action), zap.Any("panic", r), zap.Stack("stack"))
			result, retErr = s.errorResult(action, KindInternal, fmt.Errorf("internal error: %v", r)), nil
		}
	}()

	res, err := fn(ctx, request.GetArguments())
	if err != nil {
		kind := ErrorKind(err)
		s.logger.Warn("tool failed", zap.String("tool", action), zap.String("kind", kind), zap.Error(err))
		return s.errorResult(action, kind, err), nil
	}
	return res, nil
}

func (s *Server) errorResult(action, kind string, err error) *mcp.CallToolResult {
	text, yerr := output.YAML(errorPayload{Action: action, Kind: kind, Error: err.Error()})
	if yerr != nil {
		text = fmt.Sprintf("ok: false\naction: %s\nkind: %s\nerror: %q\n", action, kind, err.Error())
	}
	return mcp.NewToolResultError(text)
}

func yamlResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := output.YAML(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDetect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "detect_elements", request, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
		report, err := s.svc.Detect(ctx, stringParam(args, "app_name", ""), stringParam(args, "force_method", ""))
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(report.Text()), nil
	})
}

func (s *Server) handleClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "click_element", request, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
		index, ok, err := intParam(args, "element_index")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: element_index is required", ErrInvalidArgument)
		}
		res, err := s.svc.Click(ctx, ClickParams{
			App:          stringParam(args, "app_name", ""),
			ElementIndex: index,
			DetectionID:  stringParam(args, "detection_id", ""),
			Mode:         stringParam(args, "force_method", ""),
			Button:       stringParam(args, "button", ""),
			Double:       boolParam(args, "double", false),
		})
		if err != nil {
			return nil, err
		}
		return yamlResult(res)
	})
}

func (s *Server) handleType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "type_text", request, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
		p := TypeParams{
			App:         stringParam(args, "app_name", ""),
			Text:        stringParam(args, "text", ""),
			Key:         stringParam(args, "key", ""),
			DetectionID: stringParam(args, "detection_id", ""),
			Mode:        stringParam(args, "force_method", ""),
		}
		index, ok, err := intParam(args, "element_index")
		if err != nil {
			return nil, err
		}
		if ok {
			p.ElementIndex = &index
		}
		res, err := s.svc.Type(ctx, p)
		if err != nil {
			return nil, err
		}
		return yamlResult(res)
	})
}

func (s *Server) handleFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "focus_app", request, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
		res, err := s.svc.Focus(ctx, stringParam(args, "app_name", ""))
		if err != nil {
			return nil, err
		}
		return yamlResult(res)
	})
}

func (s *Server) handleAnnotated(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(ctx, "annotated_screenshot", request, func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
		shot, err := s.svc.Annotate(ctx,
			stringParam(args, "app_name", ""),
			stringParam(args, "detection_id", ""),
			stringParam(args, "force_method", ""))
		if err != nil {
			return nil, err
		}
		data, err := imaging.Encode(shot.Image, imaging.PNG, 0)
		if err != nil {
			return nil, err
		}
		caption := fmt.Sprintf("%s window %s with %d numbered elements (detection_id %s)",
			shot.App, shot.Frame, shot.Elements, shot.DetectionID)
		return mcp.NewToolResultImage(caption, base64.StdEncoding.EncodeToString(data), imaging.PNG.MIMEType()), nil
	})
}
