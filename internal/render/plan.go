package render

import (
	"fmt"
	"strconv"
	"strings"
)

// TransformKind names a video transform step.
type TransformKind string

const (
	TransformScale TransformKind = "scale"
	TransformCrop  TransformKind = "crop"
	TransformTrim  TransformKind = "trim"
)

// Transform is an immutable description of one step applied to the source
// video stream.
type Transform struct {
	Kind     TransformKind
	Width    int
	Height   int
	Duration float64
}

// Scale resizes the source so it covers a width x height frame while keeping
// its aspect ratio.
func Scale(width, height int) Transform {
	return Transform{Kind: TransformScale, Width: width, Height: height}
}

// Crop cuts a centered width x height window.
func Crop(width, height int) Transform {
	return Transform{Kind: TransformCrop, Width: width, Height: height}
}

// Trim bounds the stream to its first duration seconds.
func Trim(duration float64) Transform {
	return Transform{Kind: TransformTrim, Duration: duration}
}

func (t Transform) filter() string {
	switch t.Kind {
	case TransformScale:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,setsar=1", t.Width, t.Height)
	case TransformCrop:
		return fmt.Sprintf("crop=%d:%d", t.Width, t.Height)
	case TransformTrim:
		return fmt.Sprintf("trim=duration=%s,setpts=PTS-STARTPTS", seconds(t.Duration))
	default:
		return "null"
	}
}

// PlanInput carries everything needed to describe one encode.
type PlanInput struct {
	MoviePath      string
	NarrationPath  string
	MusicPath      string
	MusicVolume    float64
	SourceHasAudio bool
	Duration       float64
	// CaptionFilters are drawtext filters applied in order after the
	// video transforms.
	CaptionFilters []string

	Width      int
	Height     int
	FPS        int
	VideoCodec string
	AudioCodec string
	Threads    int

	FilterScriptPath string
	OutputPath       string
}

// Plan is the resolved encode: ordered video transforms, the filter graph
// written to FilterScriptPath, and the ffmpeg argument vector.
type Plan struct {
	Transforms []Transform
	Graph      string
	Args       []string
	HasAudio   bool
}

// With returns a copy of the plan with t appended.
func (p Plan) With(t Transform) Plan {
	next := p
	next.Transforms = append(append(make([]Transform, 0, len(p.Transforms)+1), p.Transforms...), t)
	return next
}

// BuildPlan resolves the filter graph and ffmpeg arguments. Narration
// replaces the source audio; music is mixed under whichever audio is active
// and trimmed to the output duration.
func BuildPlan(in PlanInput) (Plan, error) {
	if strings.TrimSpace(in.MoviePath) == "" {
		return Plan{}, fmt.Errorf("movie path is required")
	}
	if strings.TrimSpace(in.OutputPath) == "" || strings.TrimSpace(in.FilterScriptPath) == "" {
		return Plan{}, fmt.Errorf("output and filter script paths are required")
	}
	if in.Duration <= 0 {
		return Plan{}, fmt.Errorf("duration must be positive, got %v", in.Duration)
	}
	if in.Width <= 0 || in.Height <= 0 || in.FPS <= 0 {
		return Plan{}, fmt.Errorf("invalid frame settings %dx%d@%d", in.Width, in.Height, in.FPS)
	}

	plan := Plan{}.
		With(Scale(in.Width, in.Height)).
		With(Crop(in.Width, in.Height)).
		With(Trim(in.Duration))

	args := []string{"-hide_banner", "-nostdin", "-y", "-i", in.MoviePath}
	nextInput := 1
	narrationInput, musicInput := -1, -1
	if in.NarrationPath != "" {
		args = append(args, "-i", in.NarrationPath)
		narrationInput = nextInput
		nextInput++
	}
	if in.MusicPath != "" {
		args = append(args, "-i", in.MusicPath)
		musicInput = nextInput
	}

	videoChain := make([]string, 0, len(plan.Transforms)+len(in.CaptionFilters))
	for _, t := range plan.Transforms {
		videoChain = append(videoChain, t.filter())
	}
	videoChain = append(videoChain, in.CaptionFilters...)

	var graph strings.Builder
	graph.WriteString("[0:v]")
	graph.WriteString(strings.Join(videoChain, ",\n"))
	graph.WriteString("[vout]")

	active := ""
	switch {
	case narrationInput >= 0:
		active = fmt.Sprintf("[%d:a]", narrationInput)
	case in.SourceHasAudio:
		active = "[0:a]"
	}
	trim := "atrim=duration=" + seconds(in.Duration) + ",asetpts=PTS-STARTPTS"

	audioLabel := ""
	switch {
	case musicInput >= 0 && active != "":
		fmt.Fprintf(&graph, ";\n%s%s[voice]", active, trim)
		fmt.Fprintf(&graph, ";\n[%d:a]volume=%s,%s[music]", musicInput, volume(in.MusicVolume), trim)
		graph.WriteString(";\n[voice][music]amix=inputs=2:duration=longest:dropout_transition=0:normalize=0[aout]")
		audioLabel = "[aout]"
	case musicInput >= 0:
		fmt.Fprintf(&graph, ";\n[%d:a]volume=%s,%s[aout]", musicInput, volume(in.MusicVolume), trim)
		audioLabel = "[aout]"
	case active != "":
		fmt.Fprintf(&graph, ";\n%s%s[aout]", active, trim)
		audioLabel = "[aout]"
	}
	graph.WriteString("\n")

	args = append(args, "-filter_complex_script", in.FilterScriptPath, "-map", "[vout]")
	if audioLabel != "" {
		args = append(args, "-map", audioLabel, "-c:a", defaultString(in.AudioCodec, "aac"))
	} else {
		args = append(args, "-an")
	}
	args = append(args,
		"-c:v", defaultString(in.VideoCodec, "libx264"),
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(in.FPS),
	)
	if in.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(in.Threads))
	}
	args = append(args, "-t", seconds(in.Duration), "-movflags", "+faststart", in.OutputPath)

	plan.Graph = graph.String()
	plan.Args = args
	plan.HasAudio = audioLabel != ""
	return plan, nil
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func volume(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
