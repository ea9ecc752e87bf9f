package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

// SQLStore persists the engine's state on sqlite or postgres through
// database/sql. Decimals travel as their canonical string form; the
// UNIQUE (exam_id, user_id) index on attempts is what actually enforces
// one attempt per student.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	dj, err := json.Marshal(e.AllowedDepartments)
	if err != nil {
		return err
	}
	pub := 0
	if e.IsPublished {
		pub = 1
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams
		(id,title,total_marks,passing_marks,start_time,end_time,is_published,allowed_departments,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title,
			total_marks=EXCLUDED.total_marks,
			passing_marks=EXCLUDED.passing_marks,
			start_time=EXCLUDED.start_time,
			end_time=EXCLUDED.end_time,
			is_published=EXCLUDED.is_published,
			allowed_departments=EXCLUDED.allowed_departments,
			questions_json=EXCLUDED.questions_json`,
		e.ID, e.Title, e.TotalMarks.String(), e.PassingMarks.String(),
		e.StartTime.Unix(), e.EndTime.Unix(), pub, string(dj), string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := s.GetExamFull(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return e.StripAnswerKeys(), nil
}

func (s *SQLStore) GetExamFull(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,total_marks,passing_marks,start_time,end_time,is_published,allowed_departments,questions_json,created_at
		FROM exams WHERE id=$1`, id)
	var (
		e          Exam
		start, end int64
		pub        int
		dj, qj     string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.TotalMarks, &e.PassingMarks, &start, &end, &pub, &dj, &qj, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	e.StartTime = time.Unix(start, 0).UTC()
	e.EndTime = time.Unix(end, 0).UTC()
	e.IsPublished = pub != 0
	if err := json.Unmarshal([]byte(dj), &e.AllowedDepartments); err != nil {
		return Exam{}, fmt.Errorf("exam %s departments: %w", id, err)
	}
	if err := json.Unmarshal([]byte(qj), &e.Questions); err != nil {
		return Exam{}, fmt.Errorf("exam %s questions: %w", id, err)
	}
	return e, nil
}

func (s *SQLStore) CreateAttempt(ctx context.Context, examID, userID string) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, examID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrExamNotFound
		}
		return Attempt{}, err
	}
	a := Attempt{
		ID:        uuid.NewString(),
		ExamID:    examID,
		UserID:    userID,
		Status:    AttemptInProgress,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,exam_id,user_id,status,total_score,obtained_score,started_at)
		VALUES ($1,$2,$3,$4,'0','0',$5)`,
		a.ID, a.ExamID, a.UserID, string(a.Status), a.StartedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return Attempt{}, ErrAlreadyAttempted
		}
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,exam_id,user_id,status,total_score,obtained_score,started_at,submit_time
		FROM attempts WHERE id=$1`, id)
	var (
		a       Attempt
		status  string
		started int64
		submit  sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.ExamID, &a.UserID, &status, &a.TotalScore, &a.ObtainedScore, &started, &submit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	a.Status = AttemptStatus(status)
	a.StartedAt = time.Unix(started, 0).UTC()
	if submit.Valid {
		t := time.Unix(submit.Int64, 0).UTC()
		a.SubmitTime = &t
	}
	return a, nil
}

func (s *SQLStore) HasAttempted(ctx context.Context, examID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM attempts WHERE exam_id=$1 AND user_id=$2`, examID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) SubmitAttempt(ctx context.Context, attemptID string, at time.Time) (Attempt, error) {
	a, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == AttemptSubmitted {
		return a, nil
	}
	_, err = s.db.ExecContext(ctx, `UPDATE attempts SET status=$1, submit_time=$2 WHERE id=$3`,
		string(AttemptSubmitted), at.Unix(), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	return s.GetAttempt(ctx, attemptID)
}

func (s *SQLStore) SaveAttemptScores(ctx context.Context, attemptID string, total, obtained decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `UPDATE attempts SET total_score=$1, obtained_score=$2 WHERE id=$3`,
		total.String(), obtained.String(), attemptID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

func (s *SQLStore) SaveAnswers(ctx context.Context, attemptID string, values map[string]grading.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for qid, v := range values {
		buf, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO answers (attempt_id,question_id,answer_json)
			VALUES ($1,$2,$3)
			ON CONFLICT (attempt_id,question_id) DO UPDATE SET answer_json=EXCLUDED.answer_json`,
			attemptID, qid, string(buf)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListAnswers(ctx context.Context, attemptID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id,answer_json,score FROM answers
		WHERE attempt_id=$1 ORDER BY question_id`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Answer
	for rows.Next() {
		a := Answer{AttemptID: attemptID}
		var vj string
		if err := rows.Scan(&a.QuestionID, &vj, &a.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(vj), &a.Value); err != nil {
			return nil, fmt.Errorf("answer %s/%s payload: %w", attemptID, a.QuestionID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveAnswerScore(ctx context.Context, attemptID, questionID string, score decimal.NullDecimal) error {
	var v interface{}
	if score.Valid {
		v = score.Decimal.String()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE answers SET score=$1 WHERE attempt_id=$2 AND question_id=$3`,
		v, attemptID, questionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnswerNotFound
	}
	return nil
}

func (s *SQLStore) UpsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO results
		(attempt_id,exam_id,user_id,total_marks,obtained_marks,percentage,status,grading_status,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (attempt_id) DO UPDATE SET
			total_marks=EXCLUDED.total_marks,
			obtained_marks=EXCLUDED.obtained_marks,
			percentage=EXCLUDED.percentage,
			status=EXCLUDED.status,
			grading_status=EXCLUDED.grading_status,
			submitted_at=EXCLUDED.submitted_at`,
		r.AttemptID, r.ExamID, r.UserID, r.TotalMarks.String(), r.ObtainedMarks.String(),
		r.Percentage.String(), string(r.Status), string(r.GradingStatus), r.SubmittedAt.Unix())
	return err
}

func (s *SQLStore) GetResult(ctx context.Context, attemptID string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT attempt_id,exam_id,user_id,total_marks,obtained_marks,percentage,status,grading_status,submitted_at
		FROM results WHERE attempt_id=$1`, attemptID)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrResultNotFound
	}
	return r, err
}

func (s *SQLStore) ListResults(ctx context.Context, examID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT attempt_id,exam_id,user_id,total_marks,obtained_marks,percentage,status,grading_status,submitted_at
		FROM results WHERE exam_id=$1 ORDER BY submitted_at`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,username,name,role,department FROM users WHERE id=$1 OR username=$1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.Department); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (Result, error) {
	var (
		r         Result
		status    string
		gstatus   string
		submitted int64
	)
	if err := row.Scan(&r.AttemptID, &r.ExamID, &r.UserID, &r.TotalMarks, &r.ObtainedMarks,
		&r.Percentage, &status, &gstatus, &submitted); err != nil {
		return Result{}, err
	}
	r.Status = ResultStatus(status)
	r.GradingStatus = grading.Status(gstatus)
	r.SubmittedAt = time.Unix(submitted, 0).UTC()
	return r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
