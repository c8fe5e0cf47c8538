package overlay

import (
	"fmt"
	"strings"

	"reelforge/internal/config"
)

// HorizontalAlign positions a clip across the frame width.
type HorizontalAlign string

// VerticalAlign positions a clip along the frame height.
type VerticalAlign string

const (
	AlignLeft   HorizontalAlign = "left"
	AlignCenter HorizontalAlign = "center"
	AlignRight  HorizontalAlign = "right"

	AlignTop    VerticalAlign = "top"
	AlignMiddle VerticalAlign = "center"
	AlignBottom VerticalAlign = "bottom"
)

// ParseHorizontalAlign accepts left, center or right.
func ParseHorizontalAlign(value string) (HorizontalAlign, error) {
	switch align := HorizontalAlign(strings.ToLower(strings.TrimSpace(value))); align {
	case AlignLeft, AlignCenter, AlignRight:
		return align, nil
	case "":
		return AlignCenter, nil
	default:
		return "", fmt.Errorf("unknown horizontal alignment %q", value)
	}
}

// ParseVerticalAlign accepts top, center or bottom.
func ParseVerticalAlign(value string) (VerticalAlign, error) {
	switch align := VerticalAlign(strings.ToLower(strings.TrimSpace(value))); align {
	case AlignTop, AlignMiddle, AlignBottom:
		return align, nil
	case "":
		return AlignBottom, nil
	default:
		return "", fmt.Errorf("unknown vertical alignment %q", value)
	}
}

// Style configures caption appearance.
type Style struct {
	FontPath    string
	FontSize    int
	FontColor   string
	StrokeColor string
	StrokeWidth int
	// TextAlign aligns wrapped lines relative to each other.
	TextAlign  HorizontalAlign
	Horizontal HorizontalAlign
	Vertical   VerticalAlign
	// Margin is the distance in pixels from the aligned edge.
	Margin     int
	FrameWidth int
}

// DefaultStyle mirrors the caption look reels have always shipped with.
func DefaultStyle() Style {
	return Style{
		FontPath:    "Lato-Regular.ttf",
		FontSize:    100,
		FontColor:   "white",
		StrokeColor: "black",
		StrokeWidth: 4,
		TextAlign:   AlignCenter,
		Horizontal:  AlignCenter,
		Vertical:    AlignBottom,
		Margin:      400,
		FrameWidth:  1080,
	}
}

// StyleFromConfig builds a Style from the [captions] and [render] sections.
func StyleFromConfig(cfg *config.Config) (Style, error) {
	style := DefaultStyle()
	if cfg == nil {
		return style, nil
	}
	var err error
	if style.TextAlign, err = ParseHorizontalAlign(cfg.Captions.TextAlign); err != nil {
		return Style{}, fmt.Errorf("captions.text_align: %w", err)
	}
	if style.Horizontal, err = ParseHorizontalAlign(cfg.Captions.HorizontalAlign); err != nil {
		return Style{}, fmt.Errorf("captions.horizontal_align: %w", err)
	}
	if style.Vertical, err = ParseVerticalAlign(cfg.Captions.VerticalAlign); err != nil {
		return Style{}, fmt.Errorf("captions.vertical_align: %w", err)
	}
	style.FontPath = cfg.FontPath()
	style.FontSize = cfg.Captions.FontSize
	style.FontColor = cfg.Captions.FontColor
	style.StrokeColor = cfg.Captions.StrokeColor
	style.StrokeWidth = cfg.Captions.StrokeWidth
	style.Margin = cfg.Captions.Margin
	style.FrameWidth = cfg.Render.Width
	return style, nil
}

func (s Style) validate() error {
	if strings.TrimSpace(s.FontPath) == "" {
		return fmt.Errorf("font path is empty")
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", s.FontSize)
	}
	if s.FrameWidth <= 0 {
		return fmt.Errorf("frame width must be positive, got %d", s.FrameWidth)
	}
	if s.StrokeWidth < 0 || s.Margin < 0 {
		return fmt.Errorf("stroke width and margin must not be negative")
	}
	if s.FrameWidth-2*s.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width %d leaves no room in frame width %d", s.StrokeWidth, s.FrameWidth)
	}
	return nil
}
