package exam

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrAlreadyAttempted = errors.New("already attempted")
	ErrAttemptSubmitted = errors.New("attempt already submitted")
)

// Store is the persistence contract the engine consumes.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	// GetExam is the student-safe view: answer keys stripped.
	GetExam(ctx context.Context, id string) (Exam, error)
	// GetExamFull keeps answer keys; used by the evaluator and graders.
	GetExamFull(ctx context.Context, id string) (Exam, error)

	CreateAttempt(ctx context.Context, examID, userID string) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// HasAttempted is the gate's fast-path check; the UNIQUE
	// (exam_id, user_id) constraint behind CreateAttempt is the
	// authoritative guard against the create/create race.
	HasAttempted(ctx context.Context, examID, userID string) (bool, error)
	SubmitAttempt(ctx context.Context, attemptID string, at time.Time) (Attempt, error)
	SaveAttemptScores(ctx context.Context, attemptID string, total, obtained decimal.Decimal) error

	SaveAnswers(ctx context.Context, attemptID string, values map[string]grading.Response) error
	ListAnswers(ctx context.Context, attemptID string) ([]Answer, error)
	SaveAnswerScore(ctx context.Context, attemptID, questionID string, score decimal.NullDecimal) error

	UpsertResult(ctx context.Context, r Result) error
	GetResult(ctx context.Context, attemptID string) (Result, error)
	ListResults(ctx context.Context, examID string) ([]Result, error)

	GetUser(ctx context.Context, id string) (User, error)
}
