package scoring

import (
	"fmt"
	"sort"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
)

// CategoryScore pairs a localized category label with the unrounded
// mean of its answer levels. Rounding happens only at display time.
type CategoryScore struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
}

// Categorize returns the localized category label for each question
// index, in question order.
func Categorize(texts i18n.Resolver, lang string) []string {
	keys := catalog.CategoryKeys()
	labels := make([]string, len(keys))
	for i, key := range keys {
		labels[i] = texts.Resolve(key, lang)
	}
	return labels
}

// AnalyzeByCategory groups a full answer set by question category and
// returns the per-category means, ordered by each category's first
// appearance in question order. The answer list must cover every
// question exactly once.
func AnalyzeByCategory(answers []int, texts i18n.Resolver, lang string) ([]CategoryScore, error) {
	questions := catalog.Questions()
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), len(questions))
	}

	labels := Categorize(texts, lang)
	type bucket struct {
		sum   int
		count int
	}
	order := make([]string, 0, len(labels))
	buckets := make(map[string]*bucket, len(labels))
	for i, lvl := range answers {
		label := labels[i]
		b, ok := buckets[label]
		if !ok {
			b = &bucket{}
			buckets[label] = b
			order = append(order, label)
		}
		b.sum += lvl
		b.count++
	}

	scores := make([]CategoryScore, len(order))
	for i, label := range order {
		b := buckets[label]
		scores[i] = CategoryScore{Category: label, Average: float64(b.sum) / float64(b.count)}
	}
	return scores, nil
}

// StrengthsAndWeaknesses ranks the breakdown and returns the top three
// and bottom three categories, both in descending order of average, so
// the weakest category overall is the last element of bottom. Equal
// averages keep their question-order position (stable sort). Fewer
// than six categories cannot produce disjoint halves and is an error.
func StrengthsAndWeaknesses(scores []CategoryScore) (top, bottom []CategoryScore, err error) {
	if len(scores) < 6 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrTooFewCategories, len(scores))
	}
	ranked := append([]CategoryScore(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Average > ranked[j].Average })

	top = append([]CategoryScore(nil), ranked[:3]...)
	bottom = append([]CategoryScore(nil), ranked[len(ranked)-3:]...)
	return top, bottom, nil
}
