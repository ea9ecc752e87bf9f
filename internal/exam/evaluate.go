package exam

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

var percentFactor = decimal.NewFromInt(100)

// Evaluator computes an attempt's Result: it re-scores every objective
// answer, folds in whatever manual grades exist, and upserts the Result
// record. Evaluate is idempotent per attempt; concurrent calls for the
// same attempt must be serialized by the caller.
type Evaluator struct {
	store  Store
	grader grading.Grader
	now    func() time.Time
}

func NewEvaluator(store Store, grader grading.Grader) *Evaluator {
	return &Evaluator{store: store, grader: grader, now: time.Now}
}

func (ev *Evaluator) Evaluate(ctx context.Context, attemptID string) (Result, error) {
	a, err := ev.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Result{}, fmt.Errorf("load attempt: %w", err)
	}
	ex, err := ev.store.GetExamFull(ctx, a.ExamID)
	if err != nil {
		return Result{}, fmt.Errorf("load exam: %w", err)
	}
	answers, err := ev.store.ListAnswers(ctx, attemptID)
	if err != nil {
		return Result{}, fmt.Errorf("load answers: %w", err)
	}

	byID := make(map[string]Question, len(ex.Questions))
	for _, q := range ex.Questions {
		byID[q.ID] = q
	}

	// Re-score objective answers, persisting each score as we go so a
	// failure mid-pass keeps the progress made. Manual scores are only
	// read, never written here.
	for i := range answers {
		q, ok := byID[answers[i].QuestionID]
		if !ok || q.Type.ManualGraded() {
			continue
		}
		res, err := ev.grader.Grade(ctx, q.GradingQ(), answers[i].Value)
		if err != nil {
			log.Printf("evaluate: grade attempt=%s question=%s: %v", attemptID, q.ID, err)
			continue
		}
		score := decimal.NullDecimal{Decimal: res.AutoPoints, Valid: true}
		answers[i].Score = score
		if err := ev.store.SaveAnswerScore(ctx, attemptID, q.ID, score); err != nil {
			log.Printf("evaluate: save score attempt=%s question=%s: %v", attemptID, q.ID, err)
		}
	}

	// Ungraded answers contribute nothing; they show up through the
	// grading status instead.
	obtained := decimal.Zero
	for _, ans := range answers {
		if ans.Score.Valid {
			obtained = obtained.Add(ans.Score.Decimal)
		}
	}

	if err := ev.store.SaveAttemptScores(ctx, attemptID, ex.TotalMarks, obtained); err != nil {
		log.Printf("evaluate: save attempt scores attempt=%s: %v", attemptID, err)
	}

	states := make([]grading.AnswerState, 0, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		states = append(states, grading.AnswerState{Type: q.Type, Graded: ans.Score.Valid})
	}
	gradingStatus := grading.ResolveStatus(states)

	percentage := decimal.Zero
	if ex.TotalMarks.IsPositive() {
		percentage = obtained.Mul(percentFactor).Div(ex.TotalMarks).Round(2)
	}

	// Pass/fail only once every manual answer is graded.
	status := ResultPending
	if gradingStatus == grading.StatusFullyGraded {
		if obtained.GreaterThanOrEqual(ex.PassingMarks) {
			status = ResultPass
		} else {
			status = ResultFail
		}
	}

	submittedAt := ev.now().UTC()
	if a.SubmitTime != nil {
		submittedAt = *a.SubmitTime
	}

	result := Result{
		AttemptID:     a.ID,
		ExamID:        ex.ID,
		UserID:        a.UserID,
		TotalMarks:    ex.TotalMarks,
		ObtainedMarks: obtained,
		Percentage:    percentage,
		Status:        status,
		GradingStatus: gradingStatus,
		SubmittedAt:   submittedAt,
	}
	// The upsert is the one fatal persistence point: an unwritten
	// Result is a correctness problem, not something to swallow.
	if err := ev.store.UpsertResult(ctx, result); err != nil {
		return Result{}, fmt.Errorf("upsert result: %w", err)
	}
	return result, nil
}
