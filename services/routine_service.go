package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/routine"
)

var ErrRoutineNotFound = errors.New("routine not found")

type RoutineService struct {
	db *pgxpool.Pool
}

func NewRoutineService(db *pgxpool.Pool) *RoutineService {
	return &RoutineService{db: db}
}

const routineColumns = `id, user_id, title, scheduled_time, scheduled_date, completed, created_at, updated_at`

func scanRoutine(row pgx.Row) (*routine.Routine, error) {
	r := &routine.Routine{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.ScheduledTime, &r.ScheduledDate,
		&r.Completed, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoutineService) scanRoutineRows(rows pgx.Rows) ([]*routine.Routine, error) {
	defer rows.Close()

	var routines []*routine.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan routine: %w", err)
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

func (s *RoutineService) ListRoutines(ctx context.Context, userID string) ([]*routine.Routine, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+routineColumns+` FROM routines WHERE user_id = $1 ORDER BY scheduled_date, scheduled_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	return s.scanRoutineRows(rows)
}

// ListUpcoming returns not-yet-completed routines scheduled today or later,
// soonest first.
func (s *RoutineService) ListUpcoming(ctx context.Context, userID string) ([]*routine.Routine, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+routineColumns+` FROM routines
	WHERE user_id = $1 AND completed = false AND scheduled_date >= CURRENT_DATE
	ORDER BY scheduled_date, scheduled_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming routines: %w", err)
	}
	return s.scanRoutineRows(rows)
}

func (s *RoutineService) ListByDate(ctx context.Context, userID string, date time.Time) ([]*routine.Routine, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+routineColumns+` FROM routines
	WHERE user_id = $1 AND scheduled_date = $2
	ORDER BY scheduled_time`, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list routines by date: %w", err)
	}
	return s.scanRoutineRows(rows)
}

func (s *RoutineService) GetRoutine(ctx context.Context, userID string, id uuid.UUID) (*routine.Routine, error) {
	r, err := scanRoutine(s.db.QueryRow(ctx,
		`SELECT `+routineColumns+` FROM routines WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("failed to get routine: %w", err)
	}
	return r, nil
}

func (s *RoutineService) CreateRoutine(ctx context.Context, req *routine.CreateRoutineRequest) (*routine.Routine, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scheduledDate := time.Now().Format("2006-01-02")
	if req.ScheduledDate != "" {
		if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
			return nil, fmt.Errorf("scheduled_date must be YYYY-MM-DD: %w", err)
		}
		scheduledDate = req.ScheduledDate
	}

	query := `
	INSERT INTO routines (id, user_id, title, scheduled_time, scheduled_date)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + routineColumns

	r, err := scanRoutine(s.db.QueryRow(ctx, query,
		uuid.New(), req.UserID, req.Title, req.ScheduledTime, scheduledDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create routine: %w", err)
	}
	return r, nil
}

func (s *RoutineService) UpdateRoutine(ctx context.Context, userID string, id uuid.UUID, req *routine.UpdateRoutineRequest) (*routine.Routine, error) {
	r, err := s.GetRoutine(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	scheduledDate := r.ScheduledDate.Format("2006-01-02")
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		r.Title = *req.Title
	}
	if req.ScheduledTime != nil {
		r.ScheduledTime = *req.ScheduledTime
	}
	if req.ScheduledDate != nil {
		if _, err := time.Parse("2006-01-02", *req.ScheduledDate); err != nil {
			return nil, fmt.Errorf("scheduled_date must be YYYY-MM-DD: %w", err)
		}
		scheduledDate = *req.ScheduledDate
	}
	if req.Completed != nil {
		r.Completed = *req.Completed
	}

	query := `
	UPDATE routines
	SET title = $3, scheduled_time = $4, scheduled_date = $5, completed = $6, updated_at = now()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + routineColumns

	updated, err := scanRoutine(s.db.QueryRow(ctx, query,
		id, userID, r.Title, r.ScheduledTime, scheduledDate, r.Completed,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update routine: %w", err)
	}
	return updated, nil
}

func (s *RoutineService) CompleteRoutine(ctx context.Context, userID string, id uuid.UUID) (*routine.Routine, error) {
	r, err := scanRoutine(s.db.QueryRow(ctx, `
	UPDATE routines SET completed = true, updated_at = now()
	WHERE id = $1 AND user_id = $2
	RETURNING `+routineColumns, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("failed to complete routine: %w", err)
	}
	return r, nil
}

func (s *RoutineService) DeleteRoutine(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}
