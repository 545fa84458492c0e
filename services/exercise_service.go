package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/exercise"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ExerciseService struct {
	db *pgxpool.Pool
}

func NewExerciseService(db *pgxpool.Pool) *ExerciseService {
	return &ExerciseService{db: db}
}

const exerciseColumns = `id, type, difficulty, title, description, video_url, created_at, updated_at`

func scanExercise(row pgx.Row) (*exercise.Exercise, error) {
	e := &exercise.Exercise{}
	err := row.Scan(
		&e.ID, &e.Type, &e.Difficulty, &e.Title, &e.Description, &e.VideoURL,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExercises returns the catalog, optionally narrowed by type and
// difficulty. Zero values mean no filter on that dimension.
func (s *ExerciseService) ListExercises(ctx context.Context, typ exercise.Type, difficulty exercise.Difficulty) ([]*exercise.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE 1=1`
	args := []any{}

	if typ != "" {
		if !exercise.ValidType(typ) {
			return nil, fmt.Errorf("invalid exercise type %q", typ)
		}
		args = append(args, typ)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if difficulty != "" {
		if !exercise.ValidDifficulty(difficulty) {
			return nil, fmt.Errorf("invalid exercise difficulty %q", difficulty)
		}
		args = append(args, difficulty)
		query += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*exercise.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (s *ExerciseService) GetExercise(ctx context.Context, id uuid.UUID) (*exercise.Exercise, error) {
	e, err := scanExercise(s.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return e, nil
}

func (s *ExerciseService) CreateExercise(ctx context.Context, req *exercise.CreateExerciseRequest) (*exercise.Exercise, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO exercises (id, type, difficulty, title, description, video_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + exerciseColumns

	e, err := scanExercise(s.db.QueryRow(ctx, query,
		uuid.New(), req.Type, req.Difficulty, req.Title, req.Description, req.VideoURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return e, nil
}

func (s *ExerciseService) UpdateExercise(ctx context.Context, id uuid.UUID, req *exercise.UpdateExerciseRequest) (*exercise.Exercise, error) {
	e, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		if !exercise.ValidType(*req.Type) {
			return nil, fmt.Errorf("invalid exercise type %q", *req.Type)
		}
		e.Type = *req.Type
	}
	if req.Difficulty != nil {
		if !exercise.ValidDifficulty(*req.Difficulty) {
			return nil, fmt.Errorf("invalid exercise difficulty %q", *req.Difficulty)
		}
		e.Difficulty = *req.Difficulty
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.VideoURL != nil {
		e.VideoURL = *req.VideoURL
	}

	query := `
	UPDATE exercises
	SET type = $2, difficulty = $3, title = $4, description = $5, video_url = $6, updated_at = now()
	WHERE id = $1
	RETURNING ` + exerciseColumns

	updated, err := scanExercise(s.db.QueryRow(ctx, query,
		id, e.Type, e.Difficulty, e.Title, e.Description, e.VideoURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return updated, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
