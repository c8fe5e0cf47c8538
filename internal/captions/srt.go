package captions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// TerminalText marks end of speech in generated streams.
	TerminalText = "end"
	// TerminalDuration is the length of the terminal cue in seconds.
	TerminalDuration = 0.3
)

// ErrNoCues is returned by Parse when the input holds no usable cue blocks.
var ErrNoCues = errors.New("no subtitle cues found")

// GenerateCues emits one cue per word in segment then word order, followed by
// the terminal cue spanning [maxEnd, maxEnd+TerminalDuration).
func GenerateCues(t Transcription) []Cue {
	cues := make([]Cue, 0, t.WordCount()+1)
	maxEnd := 0.0
	for _, segment := range t.Segments {
		for _, word := range segment.Words {
			cues = append(cues, Cue{
				Index: len(cues) + 1,
				Start: word.Start,
				End:   word.End,
				Text:  strings.TrimSpace(word.Text),
			})
			if word.End > maxEnd {
				maxEnd = word.End
			}
		}
	}
	cues = append(cues, Cue{
		Index: len(cues) + 1,
		Start: maxEnd,
		End:   maxEnd + TerminalDuration,
		Text:  TerminalText,
	})
	return cues
}

// Generate serializes a transcription as word-level SRT text.
func Generate(t Transcription) string {
	return Encode(GenerateCues(t))
}

// Encode writes cues as SRT blocks, each followed by a blank line.
func Encode(cues []Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		sb.WriteString(strconv.Itoa(cue.Index))
		sb.WriteByte('\n')
		sb.WriteString(FormatTimestamp(cue.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(cue.End))
		sb.WriteByte('\n')
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Hours come from the total
// elapsed time and may exceed 23. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	secs := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp reads HH:MM:SS,mmm (or with a period before the
// milliseconds) into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty timestamp")
	}
	clock, fraction, ok := strings.Cut(strings.ReplaceAll(value, ".", ","), ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	secs, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(fraction)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || secs < 0 || secs > 59 || millis < 0 || len(fraction) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	for i := len(fraction); i < 3; i++ {
		millis *= 10
	}
	total := int64(hours)*3_600_000 + int64(minutes)*60_000 + int64(secs)*1000 + int64(millis)
	return float64(total) / 1000, nil
}

// Parse reads SRT text into cues. Blocks without a numeric index or a valid
// timing line are skipped. Cue text lines are joined with newlines.
func Parse(data []byte) ([]Cue, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoCues
	}

	var cues []Cue
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		startRaw, endRaw, ok := strings.Cut(lines[1], "-->")
		if !ok {
			continue
		}
		start, err := ParseTimestamp(startRaw)
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(endRaw)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
		cues = append(cues, Cue{Index: index, Start: start, End: end, Text: text})
	}
	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	return cues, nil
}
