package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/profile"
)

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, user_id, level_id, exp, points, profile_img, bio, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.LevelID, &p.Exp, &p.Points,
		&p.ProfileImg, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile returns the user's profile, creating the default one (level 1,
// exp 0, points 0) on first access.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	_, err = s.db.Exec(ctx, `INSERT INTO profiles (id, user_id) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`, uuid.New(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	p, err = scanProfile(s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies an explicit admin-style field update. This is the
// only path allowed to set exp, points or level directly.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.LevelID != nil {
		p.LevelID = *req.LevelID
	}
	if req.Exp != nil {
		p.Exp = *req.Exp
	}
	if req.Points != nil {
		p.Points = *req.Points
	}
	if req.ProfileImg != nil {
		p.ProfileImg = *req.ProfileImg
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}

	if p.LevelID < 1 || p.Exp < 0 || p.Points < 0 {
		return nil, fmt.Errorf("level must be >= 1 and exp/points non-negative")
	}

	query := `
	UPDATE profiles
	SET level_id = $2, exp = $3, points = $4, profile_img = $5, bio = $6, updated_at = now()
	WHERE user_id = $1
	RETURNING ` + profileColumns

	updated, err := scanProfile(s.db.QueryRow(ctx, query, userID, p.LevelID, p.Exp, p.Points, p.ProfileImg, p.Bio))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// AddExp increments exp in place and recomputes the level. The level only
// ever moves up here: an admin-raised level is not clawed back by the
// formula.
func (s *ProfileService) AddExp(ctx context.Context, userID string, amount int) (*profile.Profile, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	query := `
	UPDATE profiles
	SET exp = exp + $2,
	    level_id = GREATEST(level_id, (exp + $2) / $3 + 1),
	    updated_at = now()
	WHERE user_id = $1
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, userID, amount, profile.ExpPerLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to add exp: %w", err)
	}
	return p, nil
}

// AddPoints increments points in place. Points never affect level.
func (s *ProfileService) AddPoints(ctx context.Context, userID string, amount int) (*profile.Profile, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	query := `
	UPDATE profiles
	SET points = points + $2, updated_at = now()
	WHERE user_id = $1
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, userID, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to add points: %w", err)
	}
	return p, nil
}
