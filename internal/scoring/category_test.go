package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
)

// validAnswers picks one offered level per question: option 0 of the
// first question, option 1 of the second, and so on.
func validAnswers(t *testing.T) []int {
	t.Helper()
	questions := catalog.Questions()
	answers := make([]int, len(questions))
	for i, q := range questions {
		answers[i] = q.Levels[i%len(q.Levels)]
	}
	return answers
}

func TestCategorize(t *testing.T) {
	texts := i18n.Default()

	en := Categorize(texts, "en")
	if len(en) != catalog.Count() {
		t.Fatalf("got %d labels, want %d", len(en), catalog.Count())
	}
	if en[0] != "Project Planning" {
		t.Errorf("en[0] = %q", en[0])
	}

	sv := Categorize(texts, "sv")
	if sv[0] != "Projektplanering" {
		t.Errorf("sv[0] = %q", sv[0])
	}
}

func TestAnalyzeByCategoryRejectsPartialAnswers(t *testing.T) {
	texts := i18n.Default()
	for _, n := range []int{0, 1, 11, 13} {
		if _, err := AnalyzeByCategory(make([]int, n), texts, "en"); !errors.Is(err, ErrAnswerCount) {
			t.Errorf("len %d: err = %v, want ErrAnswerCount", n, err)
		}
	}
}

func TestAnalyzeByCategoryPartitionsAllAnswers(t *testing.T) {
	texts := i18n.Default()
	answers := validAnswers(t)

	scores, err := AnalyzeByCategory(answers, texts, "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 12 {
		t.Fatalf("got %d categories, want 12", len(scores))
	}

	// Every question carries its own category, so each average is the
	// answer itself and they appear in question order.
	for i, sc := range scores {
		if sc.Average != float64(answers[i]) {
			t.Errorf("category %d: average %v, want %d", i, sc.Average, answers[i])
		}
	}

	// The categories partition all answers, so the count-weighted sum
	// of the averages reproduces the overall raw mean.
	sum := 0.0
	for _, sc := range scores {
		sum += sc.Average
	}
	total := 0
	for _, a := range answers {
		total += a
	}
	wantMean := float64(total) / float64(len(answers))
	if math.Abs(sum/12-wantMean) > 1e-9 {
		t.Errorf("weighted mean %v, want %v", sum/12, wantMean)
	}
}

func TestStrengthsAndWeaknesses(t *testing.T) {
	scores := []CategoryScore{
		{"A", 3.0}, {"B", 6.5}, {"C", 1.0}, {"D", 4.0},
		{"E", 7.0}, {"F", 2.0}, {"G", 5.0}, {"H", 3.5},
		{"I", 2.5}, {"J", 6.0}, {"K", 4.5}, {"L", 1.5},
	}

	top, bottom, err := StrengthsAndWeaknesses(scores)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 || len(bottom) != 3 {
		t.Fatalf("got %d top, %d bottom", len(top), len(bottom))
	}

	wantTop := []string{"E", "B", "J"}
	for i, w := range wantTop {
		if top[i].Category != w {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Category, w)
		}
	}
	// Bottom three stay in descending order: the weakest overall is
	// the last element, not the first.
	wantBottom := []string{"F", "L", "C"}
	for i, w := range wantBottom {
		if bottom[i].Category != w {
			t.Errorf("bottom[%d] = %s, want %s", i, bottom[i].Category, w)
		}
	}

	for i := 1; i < 3; i++ {
		if top[i-1].Average < top[i].Average {
			t.Error("top is not non-increasing")
		}
		if bottom[i-1].Average < bottom[i].Average {
			t.Error("bottom is not non-increasing")
		}
	}
	for _, tp := range top {
		for _, bt := range bottom {
			if tp.Category == bt.Category {
				t.Errorf("category %s in both top and bottom", tp.Category)
			}
		}
	}
}

func TestStrengthsAndWeaknessesTieBreak(t *testing.T) {
	// Equal averages keep their input (question) order.
	scores := []CategoryScore{
		{"A", 4.0}, {"B", 4.0}, {"C", 4.0}, {"D", 4.0}, {"E", 4.0}, {"F", 4.0},
	}
	top, bottom, err := StrengthsAndWeaknesses(scores)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range []string{"A", "B", "C"} {
		if top[i].Category != w {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Category, w)
		}
	}
	for i, w := range []string{"D", "E", "F"} {
		if bottom[i].Category != w {
			t.Errorf("bottom[%d] = %s, want %s", i, bottom[i].Category, w)
		}
	}
}

func TestStrengthsAndWeaknessesTooFew(t *testing.T) {
	scores := []CategoryScore{{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}, {"E", 5}}
	if _, _, err := StrengthsAndWeaknesses(scores); !errors.Is(err, ErrTooFewCategories) {
		t.Errorf("err = %v, want ErrTooFewCategories", err)
	}
}

func TestStrengthsAndWeaknessesDoesNotMutateInput(t *testing.T) {
	scores := []CategoryScore{
		{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}, {"E", 5}, {"F", 6},
	}
	if _, _, err := StrengthsAndWeaknesses(scores); err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"A", "B", "C", "D", "E", "F"} {
		if scores[i].Category != want {
			t.Fatalf("input reordered: %v", scores)
		}
	}
}
