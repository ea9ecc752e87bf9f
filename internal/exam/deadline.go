package exam

import "time"

// AttemptEndTime is the authoritative deadline for any attempt of ex:
// the exam's end time, shared by every student regardless of when each
// one started.
func AttemptEndTime(ex Exam) time.Time {
	return ex.EndTime
}

// RemainingSeconds reports whole seconds until the deadline, clamped at
// zero once it has passed. Stateless; callers poll it as needed.
func RemainingSeconds(ex Exam, now time.Time) int64 {
	d := AttemptEndTime(ex).Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
