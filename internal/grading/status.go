package grading

// Status is the aggregate grading state of one attempt's answer set.
type Status string

const (
	StatusPending         Status = "pending"
	StatusPartiallyGraded Status = "partially_graded"
	StatusFullyGraded     Status = "fully_graded"
)

// AnswerState is the per-answer view ResolveStatus needs: the question
// type and whether a score has been recorded.
type AnswerState struct {
	Type   QuestionType
	Graded bool
}

// ResolveStatus derives the aggregate grading status from the current
// answer set. Only manually-graded types count: a pure-objective exam
// is fully graded once auto-scored. Pure function of its input, so it
// self-heals when a manual grade is added or removed between calls.
func ResolveStatus(answers []AnswerState) Status {
	manual, graded := 0, 0
	for _, a := range answers {
		if !a.Type.ManualGraded() {
			continue
		}
		manual++
		if a.Graded {
			graded++
		}
	}
	switch {
	case manual == 0:
		return StatusFullyGraded
	case graded == 0:
		return StatusPending
	case graded < manual:
		return StatusPartiallyGraded
	default:
		return StatusFullyGraded
	}
}
