package exam

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

type Question struct {
	ID             string               `json:"id"`
	Type           grading.QuestionType `json:"type"`
	Prompt         string               `json:"prompt,omitempty"`
	Points         decimal.Decimal      `json:"points"`
	Options        []grading.Option     `json:"options,omitempty"`         // mcq
	CorrectAnswers []string             `json:"correct_answers,omitempty"` // multiple_mcq
}

type Exam struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	TotalMarks         decimal.Decimal `json:"total_marks"`
	PassingMarks       decimal.Decimal `json:"passing_marks"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	IsPublished        bool            `json:"is_published"`
	AllowedDepartments []string        `json:"allowed_departments,omitempty"` // empty = unrestricted
	Questions          []Question      `json:"questions,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Answer is one student's payload for one question of an attempt.
// Score is NULL until graded: auto types are (re)written by the
// evaluator on every pass, manual types only ever by a grader.
type Answer struct {
	AttemptID  string              `json:"attempt_id"`
	QuestionID string              `json:"question_id"`
	Value      grading.Response    `json:"answer"`
	Score      decimal.NullDecimal `json:"score"`
}

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

type Attempt struct {
	ID            string          `json:"id"`
	ExamID        string          `json:"exam_id"`
	UserID        string          `json:"user_id"`
	Status        AttemptStatus   `json:"status"`
	TotalScore    decimal.Decimal `json:"total_score"`
	ObtainedScore decimal.Decimal `json:"obtained_score"`
	StartedAt     time.Time       `json:"started_at"`
	SubmitTime    *time.Time      `json:"submit_time,omitempty"`
}

type ResultStatus string

const (
	ResultPass    ResultStatus = "pass"
	ResultFail    ResultStatus = "fail"
	ResultPending ResultStatus = "pending"
)

// Result is the persisted outcome for one attempt, one-to-one by
// attempt ID and overwritten on every re-evaluation.
type Result struct {
	AttemptID     string          `json:"attempt_id"`
	ExamID        string          `json:"exam_id"`
	UserID        string          `json:"user_id"`
	TotalMarks    decimal.Decimal `json:"total_marks"`
	ObtainedMarks decimal.Decimal `json:"obtained_marks"`
	Percentage    decimal.Decimal `json:"percentage"`
	Status        ResultStatus    `json:"status"`
	GradingStatus grading.Status  `json:"grading_status"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// User is the identity view this engine needs: a role for RBAC and a
// department comparable against Exam.AllowedDepartments.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Validate enforces the authoring-time preconditions the scorer relies
// on: each mcq question has exactly one correct option with unique IDs,
// each multiple_mcq question names at least one correct answer, and
// points are non-negative.
func (e Exam) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("exam: title required")
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("exam: end_time must be after start_time")
	}
	if e.TotalMarks.IsNegative() || e.PassingMarks.IsNegative() {
		return fmt.Errorf("exam: marks must be non-negative")
	}
	for _, q := range e.Questions {
		if err := q.validate(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}
	return nil
}

func (q Question) validate() error {
	if q.ID == "" {
		return fmt.Errorf("id required")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("unknown type %q", q.Type)
	}
	if q.Points.IsNegative() {
		return fmt.Errorf("points must be non-negative")
	}
	switch q.Type {
	case grading.TypeMCQ:
		seen := map[string]struct{}{}
		correct := 0
		for _, opt := range q.Options {
			if opt.ID == "" {
				return fmt.Errorf("option id required")
			}
			if _, dup := seen[opt.ID]; dup {
				return fmt.Errorf("duplicate option id %q", opt.ID)
			}
			seen[opt.ID] = struct{}{}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("mcq needs exactly one correct option, has %d", correct)
		}
	case grading.TypeMultipleMCQ:
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("multiple_mcq needs at least one correct answer")
		}
	}
	return nil
}

// StripAnswerKeys removes correct flags and answer keys for the
// student-facing view of an exam.
func (e Exam) StripAnswerKeys() Exam {
	qs := make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		opts := make([]grading.Option, len(q.Options))
		for j, o := range q.Options {
			opts[j] = grading.Option{ID: o.ID, Text: o.Text}
		}
		q.Options = opts
		q.CorrectAnswers = nil
		qs[i] = q
	}
	e.Questions = qs
	return e
}

// GradingQ projects a question to the view the grading engine takes.
func (q Question) GradingQ() grading.Q {
	return grading.Q{
		Type:           q.Type,
		Points:         q.Points,
		Options:        q.Options,
		CorrectAnswers: q.CorrectAnswers,
	}
}
