package exam

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

// MemoryStore is the in-memory Store used by tests and offline tooling.
type MemoryStore struct {
	mu       sync.RWMutex
	exams    map[string]Exam
	attempts map[string]Attempt
	answers  map[string]map[string]Answer // attemptID -> questionID
	results  map[string]Result
	users    map[string]User
}

func NewInMemoryStore() *MemoryStore {
	return &MemoryStore{
		exams:    map[string]Exam{},
		attempts: map[string]Attempt{},
		answers:  map[string]map[string]Answer{},
		results:  map[string]Result{},
		users:    map[string]User{},
	}
}

func (m *MemoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[e.ID] = e
	return nil
}

func (m *MemoryStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := m.GetExamFull(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return e.StripAnswerKeys(), nil
}

func (m *MemoryStore) GetExamFull(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *MemoryStore) CreateAttempt(_ context.Context, examID, userID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return Attempt{}, ErrExamNotFound
	}
	for _, a := range m.attempts {
		if a.ExamID == examID && a.UserID == userID {
			return Attempt{}, ErrAlreadyAttempted
		}
	}
	a := Attempt{
		ID:        uuid.NewString(),
		ExamID:    examID,
		UserID:    userID,
		Status:    AttemptInProgress,
		StartedAt: time.Now().UTC(),
	}
	m.attempts[a.ID] = a
	return a, nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *MemoryStore) HasAttempted(_ context.Context, examID, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.attempts {
		if a.ExamID == examID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) SubmitAttempt(_ context.Context, attemptID string, at time.Time) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	if a.Status == AttemptSubmitted {
		return a, nil
	}
	a.Status = AttemptSubmitted
	a.SubmitTime = &at
	m.attempts[attemptID] = a
	return a, nil
}

func (m *MemoryStore) SaveAttemptScores(_ context.Context, attemptID string, total, obtained decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return ErrAttemptNotFound
	}
	a.TotalScore = total
	a.ObtainedScore = obtained
	m.attempts[attemptID] = a
	return nil
}

func (m *MemoryStore) SaveAnswers(_ context.Context, attemptID string, values map[string]grading.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attemptID]; !ok {
		return ErrAttemptNotFound
	}
	byQ := m.answers[attemptID]
	if byQ == nil {
		byQ = map[string]Answer{}
		m.answers[attemptID] = byQ
	}
	for qid, v := range values {
		ans := byQ[qid]
		ans.AttemptID = attemptID
		ans.QuestionID = qid
		ans.Value = v
		byQ[qid] = ans
	}
	return nil
}

func (m *MemoryStore) ListAnswers(_ context.Context, attemptID string) ([]Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byQ := m.answers[attemptID]
	out := make([]Answer, 0, len(byQ))
	for _, a := range byQ {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *MemoryStore) SaveAnswerScore(_ context.Context, attemptID, questionID string, score decimal.NullDecimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byQ := m.answers[attemptID]
	a, ok := byQ[questionID]
	if !ok {
		return ErrAttemptNotFound
	}
	a.Score = score
	byQ[questionID] = a
	return nil
}

func (m *MemoryStore) UpsertResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.AttemptID] = r
	return nil
}

func (m *MemoryStore) GetResult(_ context.Context, attemptID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[attemptID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return r, nil
}

func (m *MemoryStore) ListResults(_ context.Context, examID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for _, r := range m.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptID < out[j].AttemptID })
	return out, nil
}

func (m *MemoryStore) PutUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
