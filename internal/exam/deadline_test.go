package exam

import (
	"testing"
	"time"
)

func TestAttemptEndTimeIsUniversal(t *testing.T) {
	end := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ex := Exam{ID: "exam-1", EndTime: end}
	// same deadline no matter when a student started
	if got := AttemptEndTime(ex); !got.Equal(end) {
		t.Fatalf("AttemptEndTime = %v, want %v", got, end)
	}
}

func TestRemainingSeconds(t *testing.T) {
	end := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ex := Exam{EndTime: end}

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{name: "well before deadline", now: end.Add(-90 * time.Second), want: 90},
		{name: "sub-second remainder truncates", now: end.Add(-90*time.Second - 500*time.Millisecond), want: 90},
		{name: "exactly at deadline", now: end, want: 0},
		{name: "after deadline never negative", now: end.Add(time.Hour), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemainingSeconds(ex, tc.now); got != tc.want {
				t.Fatalf("RemainingSeconds = %d, want %d", got, tc.want)
			}
		})
	}
}
