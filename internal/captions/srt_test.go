package captions_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"reelforge/internal/captions"
)

func sampleTranscription() captions.Transcription {
	return captions.Transcription{
		Text:     "Hello there world again",
		Language: "en",
		Segments: []captions.Segment{
			{ID: 0, Start: 0.0, End: 1.2, Text: "Hello there", Words: []captions.Word{
				{Text: " Hello", Start: 0.0, End: 0.5, Confidence: 0.98},
				{Text: "there ", Start: 0.6, End: 1.2, Confidence: 0.91},
			}},
			{ID: 1, Start: 1.5, End: 2.75, Text: "world again", Words: []captions.Word{
				{Text: "world", Start: 1.5, End: 2.0, Confidence: 0.88},
				{Text: "again", Start: 2.1, End: 2.75, Confidence: 0.95},
			}},
		},
	}
}

func TestGenerateCuesEmitsOneCuePerWordPlusTerminal(t *testing.T) {
	tr := sampleTranscription()
	cues := captions.GenerateCues(tr)

	if len(cues) != tr.WordCount()+1 {
		t.Fatalf("expected %d cues, got %d", tr.WordCount()+1, len(cues))
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("cue %d has index %d", i, cue.Index)
		}
		if cue.End < cue.Start {
			t.Fatalf("cue %d ends before it starts: %+v", i, cue)
		}
	}
	if cues[0].Text != "Hello" || cues[1].Text != "there" {
		t.Fatalf("expected trimmed word text, got %q %q", cues[0].Text, cues[1].Text)
	}
	last := cues[len(cues)-1]
	if last.Text != captions.TerminalText {
		t.Fatalf("expected terminal text %q, got %q", captions.TerminalText, last.Text)
	}
	if last.Start != 2.75 || math.Abs(last.End-3.05) > 1e-9 {
		t.Fatalf("unexpected terminal window [%v, %v)", last.Start, last.End)
	}
}

func TestGenerateCuesWithoutWordsYieldsOnlyTerminal(t *testing.T) {
	tests := []struct {
		name string
		tr   captions.Transcription
	}{
		{"empty", captions.Transcription{}},
		{"segments without words", captions.Transcription{Segments: []captions.Segment{{ID: 0, Start: 0, End: 3, Text: "..."}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cues := captions.GenerateCues(tt.tr)
			if len(cues) != 1 {
				t.Fatalf("expected only terminal cue, got %d", len(cues))
			}
			if cues[0].Index != 1 || cues[0].Start != 0 || cues[0].Text != captions.TerminalText {
				t.Fatalf("unexpected terminal cue: %+v", cues[0])
			}
		})
	}
}

func TestGenerateUsesCueBlockLayout(t *testing.T) {
	tr := captions.Transcription{Segments: []captions.Segment{{Words: []captions.Word{{Text: "Hi", Start: 1.0, End: 1.25}}}}}
	got := captions.Generate(tr)
	want := "1\n00:00:01,000 --> 00:00:01,250\nHi\n\n" +
		"2\n00:00:01,250 --> 00:00:01,550\nend\n\n"
	if got != want {
		t.Fatalf("unexpected srt:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.001, "00:01:01,001"},
		{3599.9996, "01:00:00,000"},
		{-2, "00:00:00,000"},
		{86400 + 3661.25, "25:01:01,250"},
		{100 * 3600, "100:00:00,000"},
	}
	for _, tt := range tests {
		if got := captions.FormatTimestamp(tt.seconds); got != tt.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{"00:00:01,500", 1.5, false},
		{"00:00:01.500", 1.5, false},
		{"25:01:01,250", 90061.25, false},
		{"00:00:02,5", 2.5, false},
		{"00:00:02", 0, true},
		{"00:61:00,000", 0, true},
		{"aa:00:00,000", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := captions.ParseTimestamp(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseTimestamp(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.value, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseRoundTripsGeneratedText(t *testing.T) {
	tr := sampleTranscription()
	cues, err := captions.Parse([]byte(captions.Generate(tr)))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != tr.WordCount()+1 {
		t.Fatalf("expected %d cues, got %d", tr.WordCount()+1, len(cues))
	}

	var words []string
	for _, segment := range tr.Segments {
		for _, word := range segment.Words {
			words = append(words, strings.TrimSpace(word.Text))
		}
	}
	for i, word := range words {
		if cues[i].Text != word {
			t.Fatalf("cue %d text %q, want %q", i, cues[i].Text, word)
		}
	}
	if cues[len(cues)-1].Text != captions.TerminalText {
		t.Fatalf("expected terminal cue last, got %q", cues[len(cues)-1].Text)
	}
	if got := captions.LastEnd(cues); math.Abs(got-3.05) > 1e-9 {
		t.Fatalf("LastEnd = %v, want 3.05", got)
	}
}

func TestParseToleratesCRLFAndBOM(t *testing.T) {
	data := "\ufeff1\r\n00:00:00,000 --> 00:00:00,400\r\nOne\r\n\r\nbogus block\r\n\r\n2\r\n00:00:00,500 --> 00:00:01,000\r\nTwo\r\nlines\r\n"
	cues, err := captions.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[1].Text != "Two\nlines" {
		t.Fatalf("unexpected multi-line text %q", cues[1].Text)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "not an srt file"} {
		if _, err := captions.Parse([]byte(input)); !errors.Is(err, captions.ErrNoCues) {
			t.Fatalf("Parse(%q) expected ErrNoCues, got %v", input, err)
		}
	}
}

func TestTranscriptionValidate(t *testing.T) {
	if err := sampleTranscription().Validate(); err != nil {
		t.Fatalf("expected valid transcription, got %v", err)
	}

	reversed := sampleTranscription()
	reversed.Segments[0].Words[1].End = 0.1
	if err := reversed.Validate(); err == nil {
		t.Fatal("expected error for word ending before start")
	}

	unordered := sampleTranscription()
	unordered.Segments[1].Words[0].Start = 2.5
	unordered.Segments[1].Words[0].End = 2.6
	if err := unordered.Validate(); err == nil {
		t.Fatal("expected error for out-of-order words")
	}
}
