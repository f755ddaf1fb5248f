package cmd

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/actuate"
	"github.com/mj1618/desktop-locate/internal/config"
	"github.com/mj1618/desktop-locate/internal/detect"
	"github.com/mj1618/desktop-locate/internal/ocr"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/server"
	"github.com/mj1618/desktop-locate/internal/session"
	"github.com/mj1618/desktop-locate/internal/vision"
	"github.com/mj1618/desktop-locate/internal/window"
)

// Result confidences of the OCR engines, tried in this order.
const (
	paddleConfidence    = 0.9
	tesseractConfidence = 0.8
)

// buildDetectors creates every detector from cfg. The returned cleanup
// releases the in-process OCR engine.
func buildDetectors(cfg *config.Config, provider *platform.Provider, logger *zap.Logger) ([]detect.Detector, func()) {
	client := vision.NewClient(vision.Config{
		BaseURL:   cfg.Vision.BaseURL,
		APIKey:    cfg.Vision.APIKey,
		Model:     cfg.Vision.Model,
		MaxTokens: cfg.Vision.MaxTokens,
		Timeout:   cfg.Vision.Timeout,
	}, logger.Named("vision"))

	paddle := ocr.NewPaddle(ocr.PaddleConfig{
		OnnxRuntimeLibPath: cfg.OCR.OnnxRuntimeLib,
		DetModelPath:       cfg.OCR.DetModel,
		RecModelPath:       cfg.OCR.RecModel,
		DictPath:           cfg.OCR.Dict,
	})
	tesseract := ocr.NewTesseract(cfg.OCR.Binary)
	tesseract.MinConfidence = cfg.OCR.MinConfidence

	detectors := []detect.Detector{
		detect.NewAccessibility(provider.Processes, provider.Accessibility, logger.Named("accessibility")),
		detect.NewVision(client, cfg.Vision.Timeout, logger.Named("vision")),
		detect.NewOCR([]detect.OCREngine{
			{Engine: paddle, Confidence: paddleConfidence},
			{Engine: tesseract, Confidence: tesseractConfidence},
		}, logger.Named("ocr")),
		detect.NewHeuristic(),
	}
	return detectors, func() {
		if err := paddle.Close(); err != nil {
			logger.Debug("failed to release ocr engine", zap.Error(err))
		}
	}
}

// buildService wires the platform provider, window resolver, detection
// pipeline and actuator into a service.
func buildService(cfg *config.Config, logger *zap.Logger) (*server.Service, func(), error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	if provider.Processes == nil || provider.Windows == nil {
		return nil, nil, fmt.Errorf("window management not available: %w", platform.ErrUnsupported)
	}

	resolver := window.NewResolver(provider.Processes, provider.Windows, window.Options{
		Settle: cfg.Window.Settle,
		Origin: image.Pt(cfg.Window.OriginX, cfg.Window.OriginY),
	}, logger.Named("window"))

	mode, err := detect.ParseMode(cfg.Detection.DefaultMode)
	if err != nil {
		return nil, nil, err
	}

	detectors, cleanup := buildDetectors(cfg, provider, logger)
	pipeline := detect.NewPipeline(resolver, provider.Screenshotter, detectors, cfg.EnabledStrategies(), logger.Named("pipeline"))

	actuator := actuate.New(resolver, provider.Inputter, logger.Named("actuate"))
	actuator.TypeDelayMs = cfg.Input.TypeDelayMs

	svc := server.NewService(server.Deps{
		Detector:      pipeline,
		Focuser:       resolver,
		Actor:         actuator,
		Screenshotter: provider.Screenshotter,
		Session:       session.New(cfg.Session.SnapshotTTL),
		DefaultMode:   mode,
		Logger:        logger.Named("service"),
	})
	return svc, cleanup, nil
}
