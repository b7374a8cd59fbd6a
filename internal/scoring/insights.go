package scoring

import (
	"fmt"

	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/models"
)

// Insights carries the secondary analysis shown alongside the final
// level: answer spread, consistency, natural time horizon, and
// purpose-specific guidance.
type Insights struct {
	Distribution    map[int]int `json:"distribution"`
	MinLevel        int         `json:"minLevel"`
	MaxLevel        int         `json:"maxLevel"`
	Range           int         `json:"range"`
	Consistency     string      `json:"consistency"`
	TimeHorizon     string      `json:"timeHorizon"`
	DevelopmentTip  string      `json:"developmentTip"`
	PurposeGuidance string      `json:"purposeGuidance,omitempty"`
}

// BuildInsights derives the secondary analysis from a full answer set
// and its rounded level.
func BuildInsights(answers []int, level int, purpose models.Purpose, texts i18n.Resolver, lang string) (Insights, error) {
	if len(answers) == 0 {
		return Insights{}, fmt.Errorf("%w: got 0", ErrAnswerCount)
	}

	dist := make(map[int]int)
	min, max := answers[0], answers[0]
	for _, lvl := range answers {
		dist[lvl]++
		if lvl < min {
			min = lvl
		}
		if lvl > max {
			max = lvl
		}
	}
	spread := max - min

	in := Insights{
		Distribution: dist,
		MinLevel:     min,
		MaxLevel:     max,
		Range:        spread,
		Consistency:  texts.Resolve(consistencyKey(spread), lang),
	}
	if level >= models.MinStratum && level <= models.MaxStratum {
		in.TimeHorizon = texts.Resolve(fmt.Sprintf("time_horizon_%d", level), lang)
		in.DevelopmentTip = texts.Resolve(fmt.Sprintf("dev_tip_%d", level), lang)
		if key := purposeGuidanceKey(purpose, level); key != "" {
			in.PurposeGuidance = texts.Resolve(key, lang)
		}
	}
	return in, nil
}

func consistencyKey(spread int) string {
	switch {
	case spread <= 2:
		return "high_consistency"
	case spread <= 4:
		return "moderate_consistency"
	default:
		return "high_variability"
	}
}

// purposeGuidanceKey picks the extra guidance line: a development
// focus for leadership use, a suggested role type for recruitment.
// Self-reflection gets no extra line.
func purposeGuidanceKey(purpose models.Purpose, level int) string {
	switch purpose {
	case models.PurposeLeadership:
		switch {
		case level <= 3:
			return "focus_strategic"
		case level <= 5:
			return "enhance_systemic"
		default:
			return "leverage_visionary"
		}
	case models.PurposeRecruitment:
		keys := map[int]string{
			1: "individual_contributor",
			2: "team_coordination",
			3: "project_management",
			4: "functional_leadership",
			5: "strategic_leadership_roles",
			6: "executive_roles",
			7: "c_suite_roles",
		}
		return keys[level]
	}
	return ""
}
