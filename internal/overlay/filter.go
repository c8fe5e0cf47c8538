package overlay

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter renders the clip as a drawtext filter reading its text from
// textFile. The caller writes Text() to textFile before running ffmpeg.
func (c Clip) Filter(textFile string) string {
	s := c.style
	opts := []string{
		"fontfile=" + escapeValue(s.FontPath),
		"textfile=" + escapeValue(textFile),
		"expansion=none",
		"fontsize=" + strconv.Itoa(s.FontSize),
		"fontcolor=" + escapeValue(s.FontColor),
	}
	if s.StrokeWidth > 0 {
		opts = append(opts,
			"borderw="+strconv.Itoa(s.StrokeWidth),
			"bordercolor="+escapeValue(s.StrokeColor),
		)
	}
	if align := textAlignFlag(s.TextAlign); align != "" {
		opts = append(opts, "text_align="+align)
	}
	opts = append(opts,
		"x="+xExpr(s.Horizontal, s.Margin),
		"y="+yExpr(s.Vertical, s.Margin),
		fmt.Sprintf("enable='gte(t,%s)*lt(t,%s)'", formatSeconds(c.Start), formatSeconds(c.End)),
	)
	return "drawtext=" + strings.Join(opts, ":")
}

func xExpr(align HorizontalAlign, margin int) string {
	switch align {
	case AlignLeft:
		return strconv.Itoa(margin)
	case AlignRight:
		return fmt.Sprintf("w-text_w-%d", margin)
	default:
		return "(w-text_w)/2"
	}
}

func yExpr(align VerticalAlign, margin int) string {
	switch align {
	case AlignTop:
		return strconv.Itoa(margin)
	case AlignMiddle:
		return "(h-text_h)/2"
	default:
		return fmt.Sprintf("h-text_h-%d", margin)
	}
}

func textAlignFlag(align HorizontalAlign) string {
	switch align {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return ""
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// escapeValue applies drawtext option escaping followed by filtergraph
// escaping, so paths and colors survive both parsing passes.
func escapeValue(value string) string {
	optionLevel := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(value)
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`).Replace(optionLevel)
}
