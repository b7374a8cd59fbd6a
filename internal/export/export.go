// Package export assembles a completed assessment into the two
// interchange formats offered for download: flat CSV rows and a
// nested JSON document, plus a markdown quick summary. Builders are
// pure; the completion timestamp is injected by the caller.
package export

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/models"
	"github.com/BobbyForshell/time-span-estimator/internal/scoring"
)

const (
	csvTimeLayout     = "2006-01-02 15:04:05"
	summaryTimeLayout = "January 02, 2006 at 03:04 PM"
	filenameLayout    = "20060102_150405"
)

// BuildTabular produces the CSV row set: a header, one row per
// question, a blank separator, then the summary block. The selected
// option is the label, in the requested locale, at the first index of
// the answer level within the question's levels list.
func BuildTabular(answers []int, avgLevel int, purpose models.Purpose, texts i18n.Resolver, lang string, completedAt time.Time) ([][]string, error) {
	questions := catalog.Questions()
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: got %d, want %d", scoring.ErrAnswerCount, len(answers), len(questions))
	}
	labels := scoring.Categorize(texts, lang)

	rows := make([][]string, 0, len(answers)+8)
	rows = append(rows, []string{"Question", "Category", "Your Answer Level", "Selected Option"})
	for i, lvl := range answers {
		option, err := selectedOption(questions[i], lvl, lang)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{
			fmt.Sprintf("Question %d", i+1),
			labels[i],
			fmt.Sprintf("Stratum %d", lvl),
			option,
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Summary", "Value"},
		[]string{"Final Stratum Level", fmt.Sprintf("Level %d", avgLevel)},
		[]string{"Assessment Purpose", purposeLabel(purpose, texts, lang)},
		[]string{"Date Completed", completedAt.Format(csvTimeLayout)},
		[]string{"Total Questions", strconv.Itoa(len(answers))},
		[]string{"Average Score", fmt.Sprintf("%.1f", rawMean(answers))},
	)
	return rows, nil
}

// BuildStructured produces the JSON export document.
func BuildStructured(answers []int, avgLevel int, purpose models.Purpose, texts i18n.Resolver, lang string, completedAt time.Time) (models.StructuredReport, error) {
	questions := catalog.Questions()
	if len(answers) != len(questions) {
		return models.StructuredReport{}, fmt.Errorf("%w: got %d, want %d", scoring.ErrAnswerCount, len(answers), len(questions))
	}
	labels := scoring.Categorize(texts, lang)

	doc := models.StructuredReport{
		AssessmentInfo: models.AssessmentInfo{
			DateCompleted:     completedAt.Format(time.RFC3339),
			Purpose:           purposeLabel(purpose, texts, lang),
			TotalQuestions:    len(answers),
			FinalStratumLevel: avgLevel,
			AverageScore:      roundTenth(rawMean(answers)),
		},
		Answers: make([]models.ReportAnswer, 0, len(answers)),
	}
	for i, lvl := range answers {
		option, err := selectedOption(questions[i], lvl, lang)
		if err != nil {
			return models.StructuredReport{}, err
		}
		doc.Answers = append(doc.Answers, models.ReportAnswer{
			QuestionNumber: i + 1,
			Category:       labels[i],
			QuestionText:   questionText(questions[i], lang),
			AnswerLevel:    lvl,
			SelectedOption: option,
		})
	}
	return doc, nil
}

// BuildSummary renders the markdown quick report.
func BuildSummary(answers []int, avgLevel int, purpose models.Purpose, texts i18n.Resolver, lang string, completedAt time.Time) (string, error) {
	questions := catalog.Questions()
	if len(answers) != len(questions) {
		return "", fmt.Errorf("%w: got %d, want %d", scoring.ErrAnswerCount, len(answers), len(questions))
	}

	summary, description := scoring.Interpret(avgLevel, purpose, texts, lang)
	min, max := answers[0], answers[0]
	for _, lvl := range answers {
		if lvl < min {
			min = lvl
		}
		if lvl > max {
			max = lvl
		}
	}

	horizon := texts.Resolve(fmt.Sprintf("time_horizon_%d", avgLevel), lang)
	tip := texts.Resolve(fmt.Sprintf("dev_tip_%d", avgLevel), lang)

	return fmt.Sprintf(`# %s

**%s** %s
**%s** %s
**%s** %d

## %s
- **%s** %s
- **%s** %d %s
- **%s** %d/%d

## %s
%s

%s

## %s
%s
`,
		texts.Resolve("report_title", lang),
		texts.Resolve("assessment_date", lang), completedAt.Format(summaryTimeLayout),
		texts.Resolve("assessment_purpose", lang), purposeLabel(purpose, texts, lang),
		texts.Resolve("final_stratum_level", lang), avgLevel,
		texts.Resolve("key_results", lang),
		texts.Resolve("your_time_horizon", lang), horizon,
		texts.Resolve("consistency_range", lang), max-min, texts.Resolve("levels", lang),
		texts.Resolve("questions_completed_report", lang), len(answers), len(questions),
		texts.Resolve("summary_section", lang),
		summary,
		description,
		texts.Resolve("development_focus", lang),
		tip,
	), nil
}

// Filename builds the timestamped download name for a format.
func Filename(format string, completedAt time.Time) string {
	ext := format
	if format == "summary" {
		ext = "md"
	}
	return fmt.Sprintf("time_span_assessment_%s.%s", completedAt.Format(filenameLayout), ext)
}

func selectedOption(q models.Question, level int, lang string) (string, error) {
	for i, lvl := range q.Levels {
		if lvl == level {
			opts, ok := q.Options[lang]
			if !ok {
				opts = q.Options[i18n.DefaultLanguage]
			}
			return opts[i], nil
		}
	}
	return "", fmt.Errorf("%w: question %d has no option at level %d", scoring.ErrInvalidLevel, q.Index, level)
}

func questionText(q models.Question, lang string) string {
	if text, ok := q.Text[lang]; ok {
		return text
	}
	return q.Text[i18n.DefaultLanguage]
}

// purposeLabel renders the localized display name, falling back to the
// raw code for purposes outside the known set.
func purposeLabel(purpose models.Purpose, texts i18n.Resolver, lang string) string {
	if key := purpose.LabelKey(); key != "" {
		return texts.Resolve(key, lang)
	}
	return string(purpose)
}

func rawMean(levels []int) float64 {
	sum := 0
	for _, lvl := range levels {
		sum += lvl
	}
	return float64(sum) / float64(len(levels))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
