package overlay

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"reelforge/internal/captions"
	"reelforge/internal/services"
)

// Measurer reports the rendered width of text in pixels.
type Measurer interface {
	Width(text string) int
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string) int

// Width implements Measurer.
func (f MeasurerFunc) Width(text string) int { return f(text) }

// Option customizes a Builder.
type Option func(*Builder)

// WithMeasurer replaces font-based measurement. The font file must still exist.
func WithMeasurer(m Measurer) Option {
	return func(b *Builder) {
		b.measure = m
	}
}

// Builder turns cues into positioned overlay clips.
type Builder struct {
	style   Style
	measure Measurer
}

// New validates the style and loads the font.
func New(style Style, opts ...Option) (*Builder, error) {
	if err := style.validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "overlay", "validate style", "", err)
	}
	if _, err := os.Stat(style.FontPath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "overlay", "load font", fmt.Sprintf("font %q unavailable", style.FontPath), err)
	}

	b := &Builder{style: style}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.measure == nil {
		m, err := loadFontMeasurer(style.FontPath, style.FontSize)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "overlay", "load font", fmt.Sprintf("font %q unreadable", style.FontPath), err)
		}
		b.measure = m
	}
	return b, nil
}

// Style returns the builder's style.
func (b *Builder) Style() Style {
	return b.style
}

func loadFontMeasurer(path string, size int) (Measurer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return MeasurerFunc(func(text string) int {
		return font.MeasureString(face, text).Ceil()
	}), nil
}

// Clip is one caption overlay visible during [Start, End).
type Clip struct {
	Index int
	Start float64
	End   float64
	Lines []string
	style Style
}

// Text returns the wrapped caption text.
func (c Clip) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Build creates one clip per cue in cue order.
func (b *Builder) Build(cues []captions.Cue) ([]Clip, error) {
	clips := make([]Clip, 0, len(cues))
	for _, cue := range cues {
		if cue.End < cue.Start {
			return nil, services.Wrap(services.ErrValidation, "overlay", "build clip", fmt.Sprintf("cue %d ends at %.3f before it starts at %.3f", cue.Index, cue.End, cue.Start), nil)
		}
		clips = append(clips, Clip{
			Index: cue.Index,
			Start: cue.Start,
			End:   cue.End,
			Lines: b.wrap(cue.Text),
			style: b.style,
		})
	}
	return clips, nil
}

// wrap greedily fills lines up to the frame width minus the stroke on both
// sides. A single word wider than the frame keeps its own line.
func (b *Builder) wrap(text string) []string {
	maxWidth := b.style.FrameWidth - 2*b.style.StrokeWidth
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if b.measure.Width(candidate) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}
