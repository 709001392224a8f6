package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/learnscope/learnscope/internal/domain"
	"github.com/learnscope/learnscope/internal/shared"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS students (
		student_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		points INTEGER NOT NULL DEFAULT 0,
		total_time_minutes INTEGER NOT NULL DEFAULT 0,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_student ON goals(student_id);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_activities_student ON activities(student_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetStudent retrieves a student by ID.
func (s *SQLiteStore) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT student_id, name, points, total_time_minutes,
		       last_seen_at, created_at, updated_at
		FROM students WHERE student_id = ?`

	row := s.db.QueryRowContext(ctx, query, studentID)

	var student domain.Student
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(
		&student.StudentID, &student.Name, &student.Points, &student.TotalTimeMinutes,
		&lastSeen, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan student row: %w", err)
	}

	student.LastSeenAt = time.Unix(lastSeen, 0)
	student.CreatedAt = time.Unix(createdAt, 0)
	student.UpdatedAt = time.Unix(updatedAt, 0)

	return &student, nil
}

// UpsertStudent creates or updates a student record.
func (s *SQLiteStore) UpsertStudent(ctx context.Context, student *domain.Student) error {
	query := `
	INSERT INTO students (student_id, name, points, total_time_minutes, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(student_id) DO UPDATE SET
		name = excluded.name,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		student.StudentID, student.Name, student.Points, student.TotalTimeMinutes,
		student.LastSeenAt.Unix(), student.CreatedAt.Unix(), student.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a student.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, studentID string, lastSeen time.Time) error {
	query := `UPDATE students SET last_seen_at = ?, updated_at = ? WHERE student_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), studentID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "student_id", studentID)
	}

	return nil
}

// AddPoints increments a student's accumulated points.
func (s *SQLiteStore) AddPoints(ctx context.Context, studentID string, points int) error {
	query := `UPDATE students SET points = points + ?, updated_at = ? WHERE student_id = ?`
	result, err := s.db.ExecContext(ctx, query, points, time.Now().Unix(), studentID)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("student not found")
	}
	return nil
}

// AddStudyTime increments a student's accumulated study time.
func (s *SQLiteStore) AddStudyTime(ctx context.Context, studentID string, minutes int) error {
	query := `UPDATE students SET total_time_minutes = total_time_minutes + ?, updated_at = ? WHERE student_id = ?`
	result, err := s.db.ExecContext(ctx, query, minutes, time.Now().Unix(), studentID)
	if err != nil {
		return fmt.Errorf("add study time: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("student not found")
	}
	return nil
}

// ListGoals returns all goals for a student, oldest first.
func (s *SQLiteStore) ListGoals(ctx context.Context, studentID string) ([]domain.Goal, error) {
	query := `
		SELECT id, student_id, title, completed, created_at, updated_at
		FROM goals WHERE student_id = ? ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close goal rows", "error", closeErr)
		}
	}()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		var createdAt, updatedAt int64

		if err := rows.Scan(
			&goal.ID, &goal.StudentID, &goal.Title, &goal.Completed,
			&createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan goal row: %w", err)
		}

		goal.CreatedAt = time.Unix(createdAt, 0)
		goal.UpdatedAt = time.Unix(updatedAt, 0)
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return goals, nil
}

// UpsertGoal creates or updates a goal.
func (s *SQLiteStore) UpsertGoal(ctx context.Context, goal *domain.Goal) error {
	query := `
	INSERT INTO goals (id, student_id, title, completed, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		completed = excluded.completed,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		goal.ID, goal.StudentID, goal.Title, goal.Completed,
		goal.CreatedAt.Unix(), goal.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

// CompleteGoal marks a goal completed. Retries on SQLite lock contention.
func (s *SQLiteStore) CompleteGoal(ctx context.Context, studentID, goalID string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.completeGoalOnce(ctx, studentID, goalID)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) {
			if i < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<i) // exponential backoff: 100ms, 200ms, 400ms
				slog.Debug("CompleteGoal failed with SQLITE_BUSY, retrying",
					"goal_id", goalID,
					"attempt", i+1,
					"delay", delay)
				time.Sleep(delay)
				continue
			}
		}

		return fmt.Errorf("complete goal %s after %d attempts: %w", goalID, i+1, err)
	}

	return nil
}

func (s *SQLiteStore) completeGoalOnce(ctx context.Context, studentID, goalID string) error {
	query := `UPDATE goals SET completed = 1, updated_at = ? WHERE id = ? AND student_id = ?`
	result, err := s.db.ExecContext(ctx, query, time.Now().Unix(), goalID, studentID)
	if err != nil {
		return fmt.Errorf("complete goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("goal not found")
	}
	return nil
}

// RecordActivity appends one activity entry.
func (s *SQLiteStore) RecordActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	query := `
	INSERT INTO activities (id, student_id, kind, detail, duration_minutes, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	var detail interface{}
	if entry.Detail != "" {
		detail = entry.Detail
	}

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.StudentID, entry.Kind, detail,
		entry.DurationMinutes, entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// RecentActivity returns the most recent activity entries, newest first.
func (s *SQLiteStore) RecentActivity(ctx context.Context, studentID string, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, student_id, kind, detail, duration_minutes, created_at
		FROM activities WHERE student_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close activity rows", "error", closeErr)
		}
	}()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		var detail sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&entry.ID, &entry.StudentID, &entry.Kind, &detail,
			&entry.DurationMinutes, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}

		entry.Detail = detail.String
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return entries, nil
}

// StudentProfile assembles the snapshot consumed by IEP synthesis.
func (s *SQLiteStore) StudentProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	goals, err := s.ListGoals(ctx, studentID)
	if err != nil {
		return nil, err
	}

	activity, err := s.RecentActivity(ctx, studentID, 20)
	if err != nil {
		return nil, err
	}

	return &domain.StudentProfile{
		StudentID:        student.StudentID,
		Name:             student.Name,
		Points:           student.Points,
		TotalTimeMinutes: student.TotalTimeMinutes,
		Goals:            goals,
		RecentActivity:   activity,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
