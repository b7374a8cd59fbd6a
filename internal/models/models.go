package models

import (
	"time"
)

// Stratum levels span the 7-point time-horizon scale.
const (
	MinStratum = 1
	MaxStratum = 7
)

// Purpose identifies how the assessment results will be used.
// The wire value is a stable code; display names come from the
// translation catalog via LabelKey.
type Purpose string

const (
	PurposeSelfReflection Purpose = "self-reflection"
	PurposeRecruitment    Purpose = "recruitment"
	PurposeLeadership     Purpose = "leadership"
)

// Purposes lists the supported purposes in presentation order.
func Purposes() []Purpose {
	return []Purpose{PurposeSelfReflection, PurposeRecruitment, PurposeLeadership}
}

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeSelfReflection, PurposeRecruitment, PurposeLeadership:
		return true
	}
	return false
}

// LabelKey returns the translation key for the purpose's display name.
func (p Purpose) LabelKey() string {
	switch p {
	case PurposeSelfReflection:
		return "purpose_self"
	case PurposeRecruitment:
		return "purpose_recruitment"
	case PurposeLeadership:
		return "purpose_leadership"
	}
	return ""
}

// SuffixKey returns the translation key for the sentence appended to a
// level interpretation for this purpose. Empty for unknown purposes.
func (p Purpose) SuffixKey() string {
	switch p {
	case PurposeSelfReflection:
		return "purpose_add_self"
	case PurposeRecruitment:
		return "purpose_add_recruitment"
	case PurposeLeadership:
		return "purpose_add_leadership"
	}
	return ""
}

// Question describes one prompt of the assessment. Identity is the
// 0-based index; the catalog never reorders questions.
type Question struct {
	Index    int
	Text     map[string]string
	Options  map[string][]string
	Levels   []int
	Category string // translation key of the category label
}

// LocalizedQuestion is the API view of a Question in one language.
type LocalizedQuestion struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Levels   []int    `json:"levels"`
	Category string   `json:"category"`
}

// ScoreRequest carries a full answer set coming from the UI layer.
type ScoreRequest struct {
	Answers  []int   `json:"answers"`
	Purpose  Purpose `json:"purpose"`
	Language string  `json:"language"`
}

// StructuredReport is the JSON export document.
type StructuredReport struct {
	AssessmentInfo AssessmentInfo `json:"assessment_info"`
	Answers        []ReportAnswer `json:"answers"`
}

// AssessmentInfo summarizes a completed assessment.
type AssessmentInfo struct {
	DateCompleted     string  `json:"date_completed"`
	Purpose           string  `json:"purpose"`
	TotalQuestions    int     `json:"total_questions"`
	FinalStratumLevel int     `json:"final_stratum_level"`
	AverageScore      float64 `json:"average_score"`
}

// ReportAnswer is one per-question record of the JSON export.
type ReportAnswer struct {
	QuestionNumber int    `json:"question_number"`
	Category       string `json:"category"`
	QuestionText   string `json:"question_text"`
	AnswerLevel    int    `json:"answer_level"`
	SelectedOption string `json:"selected_option"`
}

// Session holds the state of one wizard run. The store hands out
// copies; callers never share the stored instance.
type Session struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	Purpose   Purpose   `json:"purpose"`
	Answers   []int     `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CurrentQuestion returns the index of the next unanswered question.
func (s *Session) CurrentQuestion() int {
	return len(s.Answers)
}

// Complete reports whether every question has been answered.
func (s *Session) Complete(totalQuestions int) bool {
	return len(s.Answers) >= totalQuestions
}
