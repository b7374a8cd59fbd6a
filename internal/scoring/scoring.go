// Package scoring turns a completed answer set into a stratum level,
// its canned interpretation, and a per-category breakdown.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/models"
)

var (
	// ErrAnswerCount signals a caller passed a partial or oversized
	// answer list. Callers correct their input; nothing here retries.
	ErrAnswerCount = errors.New("answer count does not match question count")

	// ErrInvalidLevel signals an answer level that the question's
	// option list does not offer.
	ErrInvalidLevel = errors.New("answer level not offered by question")

	// ErrTooFewCategories signals a breakdown too small to rank a
	// disjoint top and bottom three.
	ErrTooFewCategories = errors.New("need at least six categories to rank")
)

// Fallback interpretation for levels outside the scale. The original
// catalog does not localize this pair.
const (
	undefinedSummary     = "Undefined"
	undefinedDescription = "No clear interpretation."
)

// AverageLevel returns the rounded mean of the answered levels, or 0
// for an empty list. Rounding is half-away-from-zero (plain "round
// half up" since levels are positive): a mean of 2.5 yields 3, never
// the banker's 2.
func AverageLevel(levels []int) int {
	if len(levels) == 0 {
		return 0
	}
	return int(math.Round(rawMean(levels)))
}

// rawMean is the unrounded arithmetic mean. Callers guarantee a
// non-empty list.
func rawMean(levels []int) float64 {
	sum := 0
	for _, lvl := range levels {
		sum += lvl
	}
	return float64(sum) / float64(len(levels))
}

// Interpret resolves the summary and description for a stratum level,
// with one purpose-specific sentence appended for the known purposes.
// Levels outside 1..7 degrade to a fixed placeholder pair; unknown
// purposes append nothing. Never fails.
func Interpret(level int, purpose models.Purpose, texts i18n.Resolver, lang string) (summary, description string) {
	if level < models.MinStratum || level > models.MaxStratum {
		summary, description = undefinedSummary, undefinedDescription
	} else {
		summary = texts.Resolve(fmt.Sprintf("stratum_%d", level), lang)
		description = texts.Resolve(fmt.Sprintf("stratum_desc_%d", level), lang)
	}
	if key := purpose.SuffixKey(); key != "" {
		description += texts.Resolve(key, lang)
	}
	return summary, description
}

// validateAnswers checks the answer list is complete and every level
// is actually offered by its question.
func validateAnswers(answers []int) error {
	questions := catalog.Questions()
	if len(answers) != len(questions) {
		return fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), len(questions))
	}
	for i, lvl := range answers {
		if optionIndex(questions[i].Levels, lvl) < 0 {
			return fmt.Errorf("%w: question %d has no option at level %d", ErrInvalidLevel, i, lvl)
		}
	}
	return nil
}

// optionIndex returns the first index of level in levels, or -1.
// Duplicate levels within one question resolve to the first match.
func optionIndex(levels []int, level int) int {
	for i, lvl := range levels {
		if lvl == level {
			return i
		}
	}
	return -1
}
