package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gridview/diagram"
	"gridview/viewer"
)

// viewerOptions is the YAML options file accepted by every subcommand. It
// mirrors the viewer configuration keys that make sense outside a pointer
// environment.
type viewerOptions struct {
	MinWidth  float64 `yaml:"minWidth"`
	MinHeight float64 `yaml:"minHeight"`
	MaxWidth  float64 `yaml:"maxWidth"`
	MaxHeight float64 `yaml:"maxHeight"`

	EnableDragInteraction bool `yaml:"enableDragInteraction"`

	EnableLevelOfDetail bool `yaml:"enableLevelOfDetail"`
	ZoomLevels          []struct {
		MinDimension float64 `yaml:"minDimension"`
		Class        string  `yaml:"class"`
	} `yaml:"zoomLevels"`

	EnableAdaptiveTextZoom    bool    `yaml:"enableAdaptiveTextZoom"`
	AdaptiveTextZoomThreshold float64 `yaml:"adaptiveTextZoomThreshold"`

	HoverPositionPrecision float64 `yaml:"hoverPositionPrecision"`

	InitialViewBox *struct {
		X      float64 `yaml:"x"`
		Y      float64 `yaml:"y"`
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"initialViewBox"`
}

// loadConfig builds the viewer configuration from the optional YAML options
// file plus the global flags.
func loadConfig() (viewer.Config, error) {
	cfg := viewer.Config{Logger: newLogger()}
	if flagOptions == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(flagOptions)
	if err != nil {
		return cfg, fmt.Errorf("read options: %w", err)
	}
	var opts viewerOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return cfg, fmt.Errorf("parse options: %w", err)
	}

	cfg.MinWidth = opts.MinWidth
	cfg.MinHeight = opts.MinHeight
	cfg.MaxWidth = opts.MaxWidth
	cfg.MaxHeight = opts.MaxHeight
	cfg.EnableDragInteraction = opts.EnableDragInteraction
	cfg.EnableLevelOfDetail = opts.EnableLevelOfDetail
	for _, lvl := range opts.ZoomLevels {
		cfg.ZoomLevels = append(cfg.ZoomLevels, viewer.ZoomLevel{MinDimension: lvl.MinDimension, Class: lvl.Class})
	}
	cfg.EnableAdaptiveTextZoom = opts.EnableAdaptiveTextZoom
	cfg.AdaptiveTextZoomThreshold = opts.AdaptiveTextZoomThreshold
	cfg.HoverPositionPrecision = opts.HoverPositionPrecision
	if vb := opts.InitialViewBox; vb != nil {
		cfg.InitialViewBox = &diagram.ViewBox{X: vb.X, Y: vb.Y, Width: vb.Width, Height: vb.Height}
	}
	return cfg, nil
}

// loadViewer opens the SVG file and the metadata flag into a ready viewer.
func loadViewer(svgPath string) (*viewer.Viewer, error) {
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}
	var metadata []byte
	if flagMetadata != "" {
		metadata, err = os.ReadFile(flagMetadata)
		if err != nil {
			return nil, fmt.Errorf("read metadata: %w", err)
		}
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return viewer.New(string(svg), metadata, cfg)
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
