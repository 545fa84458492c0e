package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/healthtrack"
)

var ErrHealthTrackNotFound = errors.New("health track not found")

type HealthTrackService struct {
	db *pgxpool.Pool
}

func NewHealthTrackService(db *pgxpool.Pool) *HealthTrackService {
	return &HealthTrackService{db: db}
}

const healthTrackColumns = `id, user_id, date, weight, height, water_glass, mood, sleep_hours, steps, created_at, updated_at`

func scanHealthTrack(row pgx.Row) (*healthtrack.HealthTrack, error) {
	h := &healthtrack.HealthTrack{}
	err := row.Scan(
		&h.ID, &h.UserID, &h.Date, &h.Weight, &h.Height, &h.WaterGlass,
		&h.Mood, &h.SleepHours, &h.Steps, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// UpsertHealthTrack writes the day's record, merging set metrics over
// whatever is already stored for that day. COALESCE keeps a metric the
// request left nil.
func (s *HealthTrackService) UpsertHealthTrack(ctx context.Context, userID string, req *healthtrack.UpsertHealthTrackRequest) (*healthtrack.HealthTrack, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date := time.Now().Format("2006-01-02")
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
		date = req.Date
	}

	query := `
	INSERT INTO health_tracks (id, user_id, date, weight, height, water_glass, mood, sleep_hours, steps)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (user_id, date) DO UPDATE SET
		weight = COALESCE($4, health_tracks.weight),
		height = COALESCE($5, health_tracks.height),
		water_glass = COALESCE($6, health_tracks.water_glass),
		mood = COALESCE($7, health_tracks.mood),
		sleep_hours = COALESCE($8, health_tracks.sleep_hours),
		steps = COALESCE($9, health_tracks.steps),
		updated_at = now()
	RETURNING ` + healthTrackColumns

	h, err := scanHealthTrack(s.db.QueryRow(ctx, query,
		uuid.New(), userID, date,
		req.Weight, req.Height, req.WaterGlass, req.Mood, req.SleepHours, req.Steps,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert health track: %w", err)
	}
	return h, nil
}

func (s *HealthTrackService) GetByDate(ctx context.Context, userID string, date time.Time) (*healthtrack.HealthTrack, error) {
	h, err := scanHealthTrack(s.db.QueryRow(ctx,
		`SELECT `+healthTrackColumns+` FROM health_tracks WHERE user_id = $1 AND date = $2`,
		userID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHealthTrackNotFound
		}
		return nil, fmt.Errorf("failed to get health track: %w", err)
	}
	return h, nil
}

func (s *HealthTrackService) GetTrack(ctx context.Context, userID string, trackID uuid.UUID) (*healthtrack.HealthTrack, error) {
	h, err := scanHealthTrack(s.db.QueryRow(ctx,
		`SELECT `+healthTrackColumns+` FROM health_tracks WHERE id = $1 AND user_id = $2`,
		trackID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHealthTrackNotFound
		}
		return nil, fmt.Errorf("failed to get health track: %w", err)
	}
	return h, nil
}

func (s *HealthTrackService) GetToday(ctx context.Context, userID string) (*healthtrack.HealthTrack, error) {
	return s.GetByDate(ctx, userID, time.Now())
}

func (s *HealthTrackService) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*healthtrack.HealthTrack, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+healthTrackColumns+` FROM health_tracks
	WHERE user_id = $1 AND date BETWEEN $2 AND $3
	ORDER BY date`, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list health tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*healthtrack.HealthTrack
	for rows.Next() {
		h, err := scanHealthTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health track: %w", err)
		}
		tracks = append(tracks, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// AddWater increments today's water count in one statement, creating the
// day's record when missing.
func (s *HealthTrackService) AddWater(ctx context.Context, userID string, glasses int) (*healthtrack.HealthTrack, error) {
	if glasses <= 0 {
		return nil, fmt.Errorf("glasses must be positive")
	}

	query := `
	INSERT INTO health_tracks (id, user_id, date, water_glass)
	VALUES ($1, $2, CURRENT_DATE, $3)
	ON CONFLICT (user_id, date) DO UPDATE SET
		water_glass = COALESCE(health_tracks.water_glass, 0) + $3,
		updated_at = now()
	RETURNING ` + healthTrackColumns

	h, err := scanHealthTrack(s.db.QueryRow(ctx, query, uuid.New(), userID, glasses))
	if err != nil {
		return nil, fmt.Errorf("failed to add water: %w", err)
	}
	return h, nil
}

func (s *HealthTrackService) DeleteByDate(ctx context.Context, userID string, date time.Time) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM health_tracks WHERE user_id = $1 AND date = $2`, userID, date.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to delete health track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHealthTrackNotFound
	}
	return nil
}
