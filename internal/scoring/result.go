package scoring

import (
	"math"

	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/models"
)

// Result bundles everything the UI layer renders after the last
// question: the rounded level with its interpretation, the raw mean,
// the category breakdown, and the secondary insights.
type Result struct {
	Level        int             `json:"level"`
	Summary      string          `json:"summary"`
	Description  string          `json:"description"`
	AverageScore float64         `json:"averageScore"`
	Categories   []CategoryScore `json:"categories"`
	Strengths    []CategoryScore `json:"strengths"`
	Weaknesses   []CategoryScore `json:"weaknesses"`
	Insights     Insights        `json:"insights"`
}

// Score runs the whole pipeline over a complete answer set.
func Score(answers []int, purpose models.Purpose, texts i18n.Resolver, lang string) (Result, error) {
	if err := validateAnswers(answers); err != nil {
		return Result{}, err
	}

	level := AverageLevel(answers)
	summary, description := Interpret(level, purpose, texts, lang)

	categories, err := AnalyzeByCategory(answers, texts, lang)
	if err != nil {
		return Result{}, err
	}
	strengths, weaknesses, err := StrengthsAndWeaknesses(categories)
	if err != nil {
		return Result{}, err
	}
	insights, err := BuildInsights(answers, level, purpose, texts, lang)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Level:        level,
		Summary:      summary,
		Description:  description,
		AverageScore: math.Round(rawMean(answers)*10) / 10,
		Categories:   categories,
		Strengths:    strengths,
		Weaknesses:   weaknesses,
		Insights:     insights,
	}, nil
}
