package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/dailygoal"
)

var ErrDailyGoalNotFound = errors.New("daily goal not found")

type DailyGoalService struct {
	db *pgxpool.Pool
}

func NewDailyGoalService(db *pgxpool.Pool) *DailyGoalService {
	return &DailyGoalService{db: db}
}

const dailyGoalColumns = `id, user_id, goal_date, title, completed, created_at, updated_at`

func scanDailyGoal(row pgx.Row) (*dailygoal.DailyGoal, error) {
	g := &dailygoal.DailyGoal{}
	err := row.Scan(&g.ID, &g.UserID, &g.GoalDate, &g.Title, &g.Completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *DailyGoalService) scanDailyGoalRows(rows pgx.Rows) ([]*dailygoal.DailyGoal, error) {
	defer rows.Close()

	var goals []*dailygoal.DailyGoal
	for rows.Next() {
		g, err := scanDailyGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *DailyGoalService) ListDailyGoals(ctx context.Context, userID string) ([]*dailygoal.DailyGoal, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+dailyGoalColumns+` FROM daily_goals WHERE user_id = $1 ORDER BY goal_date DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily goals: %w", err)
	}
	return s.scanDailyGoalRows(rows)
}

func (s *DailyGoalService) ListByDate(ctx context.Context, userID string, date time.Time) ([]*dailygoal.DailyGoal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+dailyGoalColumns+` FROM daily_goals
	WHERE user_id = $1 AND goal_date = $2
	ORDER BY created_at`, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list daily goals by date: %w", err)
	}
	return s.scanDailyGoalRows(rows)
}

func (s *DailyGoalService) ListToday(ctx context.Context, userID string) ([]*dailygoal.DailyGoal, error) {
	return s.ListByDate(ctx, userID, time.Now())
}

func (s *DailyGoalService) ListIncomplete(ctx context.Context, userID string) ([]*dailygoal.DailyGoal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+dailyGoalColumns+` FROM daily_goals
	WHERE user_id = $1 AND completed = false
	ORDER BY goal_date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete daily goals: %w", err)
	}
	return s.scanDailyGoalRows(rows)
}

func (s *DailyGoalService) GetDailyGoal(ctx context.Context, userID string, id uuid.UUID) (*dailygoal.DailyGoal, error) {
	g, err := scanDailyGoal(s.db.QueryRow(ctx,
		`SELECT `+dailyGoalColumns+` FROM daily_goals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDailyGoalNotFound
		}
		return nil, fmt.Errorf("failed to get daily goal: %w", err)
	}
	return g, nil
}

func (s *DailyGoalService) CreateDailyGoal(ctx context.Context, req *dailygoal.CreateDailyGoalRequest) (*dailygoal.DailyGoal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	goalDate := time.Now().Format("2006-01-02")
	if req.GoalDate != "" {
		if _, err := time.Parse("2006-01-02", req.GoalDate); err != nil {
			return nil, fmt.Errorf("goal_date must be YYYY-MM-DD: %w", err)
		}
		goalDate = req.GoalDate
	}

	query := `
	INSERT INTO daily_goals (id, user_id, goal_date, title)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + dailyGoalColumns

	g, err := scanDailyGoal(s.db.QueryRow(ctx, query, uuid.New(), req.UserID, goalDate, req.Title))
	if err != nil {
		return nil, fmt.Errorf("failed to create daily goal: %w", err)
	}
	return g, nil
}

func (s *DailyGoalService) UpdateDailyGoal(ctx context.Context, userID string, id uuid.UUID, req *dailygoal.UpdateDailyGoalRequest) (*dailygoal.DailyGoal, error) {
	g, err := s.GetDailyGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	goalDate := g.GoalDate.Format("2006-01-02")
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		g.Title = *req.Title
	}
	if req.GoalDate != nil {
		if _, err := time.Parse("2006-01-02", *req.GoalDate); err != nil {
			return nil, fmt.Errorf("goal_date must be YYYY-MM-DD: %w", err)
		}
		goalDate = *req.GoalDate
	}
	if req.Completed != nil {
		g.Completed = *req.Completed
	}

	query := `
	UPDATE daily_goals
	SET goal_date = $3, title = $4, completed = $5, updated_at = now()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + dailyGoalColumns

	updated, err := scanDailyGoal(s.db.QueryRow(ctx, query, id, userID, goalDate, g.Title, g.Completed))
	if err != nil {
		return nil, fmt.Errorf("failed to update daily goal: %w", err)
	}
	return updated, nil
}

func (s *DailyGoalService) CompleteDailyGoal(ctx context.Context, userID string, id uuid.UUID) (*dailygoal.DailyGoal, error) {
	g, err := scanDailyGoal(s.db.QueryRow(ctx, `
	UPDATE daily_goals SET completed = true, updated_at = now()
	WHERE id = $1 AND user_id = $2
	RETURNING `+dailyGoalColumns, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDailyGoalNotFound
		}
		return nil, fmt.Errorf("failed to complete daily goal: %w", err)
	}
	return g, nil
}

func (s *DailyGoalService) DeleteDailyGoal(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM daily_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete daily goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDailyGoalNotFound
	}
	return nil
}
