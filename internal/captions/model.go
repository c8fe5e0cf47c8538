package captions

import (
	"fmt"
	"math"
)

// Word is a single recognized word with its timing in seconds.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Segment groups consecutive words the recognizer treated as one utterance.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Transcription is the full recognizer result for one audio input.
type Transcription struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// WordCount returns the number of words across all segments.
func (t Transcription) WordCount() int {
	total := 0
	for _, segment := range t.Segments {
		total += len(segment.Words)
	}
	return total
}

// Validate reports the first timing violation: a word ending before it
// starts, or words and segments that are not time-ordered.
func (t Transcription) Validate() error {
	prevSegmentStart := math.Inf(-1)
	for si, segment := range t.Segments {
		if segment.Start < prevSegmentStart {
			return fmt.Errorf("segment %d starts at %.3f before previous segment at %.3f", si, segment.Start, prevSegmentStart)
		}
		prevSegmentStart = segment.Start

		prevWordStart := math.Inf(-1)
		for wi, word := range segment.Words {
			if word.End < word.Start {
				return fmt.Errorf("segment %d word %d %q ends at %.3f before it starts at %.3f", si, wi, word.Text, word.End, word.Start)
			}
			if word.Start < prevWordStart {
				return fmt.Errorf("segment %d word %d %q is out of order", si, wi, word.Text)
			}
			prevWordStart = word.Start
		}
	}
	return nil
}

// Cue is one timed SRT entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue's visible span in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// LastEnd returns the latest end time among cues, or zero when empty.
func LastEnd(cues []Cue) float64 {
	last := 0.0
	for _, cue := range cues {
		if cue.End > last {
			last = cue.End
		}
	}
	return last
}
