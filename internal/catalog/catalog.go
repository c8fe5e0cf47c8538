package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is a narration or transcription language.
type Language struct {
	// Code is the single-letter synthesis code stored with reels.
	Code string
	Name string
	// Tag is the BCP 47 tag passed to speech recognition.
	Tag language.Tag
	// Synthesis reports whether narration voices exist for the language.
	Synthesis bool
}

// ISO returns the two-letter ISO 639-1 code.
func (l Language) ISO() string {
	base, _ := l.Tag.Base()
	return base.String()
}

// Voice is a narration voice.
type Voice struct {
	ID       int
	Key      string
	Language string
	Accent   string
	Gender   string
}

// DisplayName renders the voice key as a title, e.g. "af_heart" becomes "Heart".
func (v Voice) DisplayName() string {
	_, name, found := strings.Cut(v.Key, "_")
	if !found {
		name = v.Key
	}
	return cases.Title(language.English).String(name)
}

// Model is a speech recognition model.
type Model struct {
	ID  int
	Key string
	// Engine is the model name handed to the recognizer.
	Engine      string
	Description string
}

var languages = []Language{
	{Code: "a", Name: "English", Tag: language.English, Synthesis: true},
	{Code: "e", Name: "Spanish", Tag: language.Spanish, Synthesis: true},
	{Code: "f", Name: "French", Tag: language.French, Synthesis: true},
	{Code: "i", Name: "Italian", Tag: language.Italian, Synthesis: true},
	{Code: "p", Name: "Portuguese", Tag: language.Portuguese, Synthesis: true},
	{Code: "pl", Name: "Polish", Tag: language.Polish, Synthesis: false},
}

var voices = []Voice{
	{ID: 0, Key: "af_heart", Language: "a", Accent: "American", Gender: "female"},
	{ID: 1, Key: "af_alloy", Language: "a", Accent: "American", Gender: "female"},
	{ID: 2, Key: "af_aoede", Language: "a", Accent: "American", Gender: "female"},
	{ID: 3, Key: "af_bella", Language: "a", Accent: "American", Gender: "female"},
	{ID: 4, Key: "af_jessica", Language: "a", Accent: "American", Gender: "female"},
	{ID: 5, Key: "af_kore", Language: "a", Accent: "American", Gender: "female"},
	{ID: 6, Key: "af_nicole", Language: "a", Accent: "American", Gender: "female"},
	{ID: 7, Key: "af_nova", Language: "a", Accent: "American", Gender: "female"},
	{ID: 8, Key: "af_river", Language: "a", Accent: "American", Gender: "female"},
	{ID: 9, Key: "af_sarah", Language: "a", Accent: "American", Gender: "female"},
	{ID: 10, Key: "af_sky", Language: "a", Accent: "American", Gender: "female"},
	{ID: 11, Key: "am_adam", Language: "a", Accent: "American", Gender: "male"},
	{ID: 12, Key: "am_echo", Language: "a", Accent: "American", Gender: "male"},
	{ID: 13, Key: "am_eric", Language: "a", Accent: "American", Gender: "male"},
	{ID: 14, Key: "am_fenrir", Language: "a", Accent: "American", Gender: "male"},
	{ID: 15, Key: "am_liam", Language: "a", Accent: "American", Gender: "male"},
	{ID: 16, Key: "am_michael", Language: "a", Accent: "American", Gender: "male"},
	{ID: 17, Key: "am_onyx", Language: "a", Accent: "American", Gender: "male"},
	{ID: 18, Key: "am_puck", Language: "a", Accent: "American", Gender: "male"},
	{ID: 19, Key: "am_santa", Language: "a", Accent: "American", Gender: "male"},
	{ID: 20, Key: "bf_alice", Language: "a", Accent: "British", Gender: "female"},
	{ID: 21, Key: "bf_emma", Language: "a", Accent: "British", Gender: "female"},
	{ID: 22, Key: "bf_isabella", Language: "a", Accent: "British", Gender: "female"},
	{ID: 23, Key: "bf_lily", Language: "a", Accent: "British", Gender: "female"},
	{ID: 24, Key: "bm_daniel", Language: "a", Accent: "British", Gender: "male"},
	{ID: 25, Key: "bm_fable", Language: "a", Accent: "British", Gender: "male"},
	{ID: 26, Key: "bm_george", Language: "a", Accent: "British", Gender: "male"},
	{ID: 27, Key: "bm_lewis", Language: "a", Accent: "British", Gender: "male"},
	{ID: 28, Key: "ef_dora", Language: "e", Gender: "female"},
	{ID: 29, Key: "em_alex", Language: "e", Gender: "male"},
	{ID: 30, Key: "em_santa", Language: "e", Gender: "male"},
	{ID: 31, Key: "ff_siwis", Language: "f", Gender: "female"},
	{ID: 32, Key: "if_sara", Language: "i", Gender: "female"},
	{ID: 33, Key: "im_nicola", Language: "i", Gender: "male"},
	{ID: 34, Key: "pf_dora", Language: "p", Accent: "Brazilian", Gender: "female"},
	{ID: 35, Key: "pm_alex", Language: "p", Accent: "Brazilian", Gender: "male"},
	{ID: 36, Key: "pm_santa", Language: "p", Accent: "Brazilian", Gender: "male"},
}

var models = []Model{
	{ID: 0, Key: "tiny", Engine: "tiny", Description: "fastest, lowest accuracy"},
	{ID: 1, Key: "base", Engine: "base", Description: "default balance for short reels"},
	{ID: 2, Key: "small", Engine: "small", Description: "better accuracy, moderate speed"},
	{ID: 3, Key: "medium", Engine: "medium", Description: "high accuracy, slow on CPU"},
	{ID: 4, Key: "turbo", Engine: "large-v3-turbo", Description: "large-v3 distilled for speed"},
	{ID: 5, Key: "large", Engine: "large-v3", Description: "highest accuracy, GPU recommended"},
}

// DefaultModelKey is used when a transcription request names no model.
const DefaultModelKey = "base"

// Languages returns all languages ordered as listed.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// SynthesisLanguages returns languages that have narration voices.
func SynthesisLanguages() []Language {
	var out []Language
	for _, l := range languages {
		if l.Synthesis {
			out = append(out, l)
		}
	}
	return out
}

// LanguageByCode finds a language by synthesis code or ISO 639-1 code.
func LanguageByCode(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languages {
		if l.Code == code || l.ISO() == code {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unknown language %q", code)
}

// Voices returns all voices ordered by ID.
func Voices() []Voice {
	out := append([]Voice(nil), voices...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// VoicesForLanguage returns voices that speak the given synthesis code.
func VoicesForLanguage(code string) []Voice {
	var out []Voice
	for _, v := range Voices() {
		if v.Language == code {
			out = append(out, v)
		}
	}
	return out
}

// VoiceByID looks up a voice by its stable ID.
func VoiceByID(id int) (Voice, error) {
	for _, v := range voices {
		if v.ID == id {
			return v, nil
		}
	}
	return Voice{}, fmt.Errorf("no voice with id=%d", id)
}

// VoiceByKey looks up a voice by key such as "af_heart".
func VoiceByKey(key string) (Voice, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, v := range voices {
		if v.Key == key {
			return v, nil
		}
	}
	return Voice{}, fmt.Errorf("no voice with key %q", key)
}

// Models returns all transcription models ordered by ID.
func Models() []Model {
	out := append([]Model(nil), models...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ModelByID looks up a model by its stable ID.
func ModelByID(id int) (Model, error) {
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("no transcription model with id=%d", id)
}

// ModelByKey looks up a model by key such as "base". An empty key selects
// DefaultModelKey.
func ModelByKey(key string) (Model, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = DefaultModelKey
	}
	for _, m := range models {
		if m.Key == key {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("no transcription model %q", key)
}
