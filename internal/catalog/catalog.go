// Package catalog holds the fixed question bank of the assessment.
// Questions live in an embedded YAML file and are loaded once,
// validated, and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BobbyForshell/time-span-estimator/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

type questionFile struct {
	Questions []questionEntry `yaml:"questions"`
}

type questionEntry struct {
	Text     map[string]string   `yaml:"text"`
	Options  map[string][]string `yaml:"options"`
	Levels   []int               `yaml:"levels"`
	Category string              `yaml:"category"`
}

// Load parses and validates the embedded question bank.
func Load() ([]models.Question, error) {
	var file questionFile
	if err := yaml.Unmarshal(questionsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	questions := make([]models.Question, 0, len(file.Questions))
	for i, entry := range file.Questions {
		q := models.Question{
			Index:    i,
			Text:     entry.Text,
			Options:  entry.Options,
			Levels:   entry.Levels,
			Category: entry.Category,
		}
		if err := validate(q, file.Questions[0]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// validate enforces the catalog invariants: every locale of the first
// question is present on all questions, each locale's option list
// matches the levels list in length, and levels stay within 1..7.
func validate(q models.Question, first questionEntry) error {
	if q.Category == "" {
		return fmt.Errorf("missing category")
	}
	if len(q.Levels) == 0 {
		return fmt.Errorf("no levels")
	}
	for _, lvl := range q.Levels {
		if lvl < models.MinStratum || lvl > models.MaxStratum {
			return fmt.Errorf("level %d out of range", lvl)
		}
	}
	if len(q.Text) != len(first.Text) || len(q.Options) != len(first.Options) {
		return fmt.Errorf("locale set differs from question 0")
	}
	for lang := range first.Text {
		if q.Text[lang] == "" {
			return fmt.Errorf("missing text for locale %s", lang)
		}
		opts, ok := q.Options[lang]
		if !ok {
			return fmt.Errorf("missing options for locale %s", lang)
		}
		if len(opts) != len(q.Levels) {
			return fmt.Errorf("locale %s has %d options for %d levels", lang, len(opts), len(q.Levels))
		}
	}
	return nil
}

var (
	once      sync.Once
	questions []models.Question
)

// Questions returns the immutable question bank, loading it on first
// use. The embedded file is covered by tests, so a load failure is a
// build defect and panics.
func Questions() []models.Question {
	once.Do(func() {
		qs, err := Load()
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded question bank: %v", err))
		}
		questions = qs
	})
	return questions
}

// Count returns the number of questions in the bank.
func Count() int {
	return len(Questions())
}

// Question returns the question at index i.
func Question(i int) (models.Question, bool) {
	qs := Questions()
	if i < 0 || i >= len(qs) {
		return models.Question{}, false
	}
	return qs[i], true
}

// CategoryKeys returns the per-question category translation keys in
// question order.
func CategoryKeys() []string {
	qs := Questions()
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.Category
	}
	return keys
}

// Localized projects the bank into one language for the API.
func Localized(lang string, resolve func(key, lang string) string) []models.LocalizedQuestion {
	qs := Questions()
	out := make([]models.LocalizedQuestion, len(qs))
	for i, q := range qs {
		text, ok := q.Text[lang]
		if !ok {
			text = q.Text["en"]
		}
		opts, ok := q.Options[lang]
		if !ok {
			opts = q.Options["en"]
		}
		out[i] = models.LocalizedQuestion{
			Index:    i,
			Text:     text,
			Options:  append([]string(nil), opts...),
			Levels:   append([]int(nil), q.Levels...),
			Category: resolve(q.Category, lang),
		}
	}
	return out
}
