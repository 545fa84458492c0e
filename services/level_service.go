package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/level"
)

var ErrLevelNotFound = errors.New("level not found")

// LevelService serves the 100-tier display table (names, colors, exp bands).
// The progression engine computes levels from its own formula and never
// reads this table; the two are intentionally decoupled.
type LevelService struct {
	db *pgxpool.Pool
}

func NewLevelService(db *pgxpool.Pool) *LevelService {
	return &LevelService{db: db}
}

const levelColumns = `id, level_id, name, title, color, hex_code, min_exp, max_exp, required_exp, created_at, updated_at`

func scanLevel(row pgx.Row) (*level.Level, error) {
	l := &level.Level{}
	err := row.Scan(
		&l.ID, &l.LevelID, &l.Name, &l.Title, &l.Color, &l.HexCode,
		&l.MinExp, &l.MaxExp, &l.RequiredExp, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LevelService) ListLevels(ctx context.Context) ([]*level.Level, error) {
	rows, err := s.db.Query(ctx, `SELECT `+levelColumns+` FROM levels ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []*level.Level
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return levels, nil
}

func (s *LevelService) GetLevel(ctx context.Context, levelID int) (*level.Level, error) {
	l, err := scanLevel(s.db.QueryRow(ctx, `SELECT `+levelColumns+` FROM levels WHERE level_id = $1`, levelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return l, nil
}

// GetLevelByExp finds the display tier whose exp band contains the given
// total.
func (s *LevelService) GetLevelByExp(ctx context.Context, exp int) (*level.Level, error) {
	l, err := scanLevel(s.db.QueryRow(ctx,
		`SELECT `+levelColumns+` FROM levels WHERE min_exp <= $1 AND max_exp >= $1 ORDER BY level_id LIMIT 1`, exp))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level by exp: %w", err)
	}
	return l, nil
}

func (s *LevelService) CreateLevel(ctx context.Context, req *level.CreateLevelRequest) (*level.Level, error) {
	if req.LevelID < 1 {
		return nil, fmt.Errorf("level_id must be at least 1")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	query := `
	INSERT INTO levels (id, level_id, name, title, color, hex_code, min_exp, max_exp, required_exp)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + levelColumns

	l, err := scanLevel(s.db.QueryRow(ctx, query,
		uuid.New(), req.LevelID, req.Name, req.Title, req.Color, req.HexCode,
		req.MinExp, req.MaxExp, req.RequiredExp,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}
	return l, nil
}

func (s *LevelService) UpdateLevel(ctx context.Context, levelID int, req *level.UpdateLevelRequest) (*level.Level, error) {
	l, err := s.GetLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Color != nil {
		l.Color = *req.Color
	}
	if req.HexCode != nil {
		l.HexCode = *req.HexCode
	}
	if req.MinExp != nil {
		l.MinExp = *req.MinExp
	}
	if req.MaxExp != nil {
		l.MaxExp = *req.MaxExp
	}
	if req.RequiredExp != nil {
		l.RequiredExp = *req.RequiredExp
	}

	query := `
	UPDATE levels
	SET name = $2, title = $3, color = $4, hex_code = $5, min_exp = $6, max_exp = $7, required_exp = $8, updated_at = now()
	WHERE level_id = $1
	RETURNING ` + levelColumns

	updated, err := scanLevel(s.db.QueryRow(ctx, query,
		levelID, l.Name, l.Title, l.Color, l.HexCode, l.MinExp, l.MaxExp, l.RequiredExp,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}
	return updated, nil
}

func (s *LevelService) DeleteLevel(ctx context.Context, levelID int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM levels WHERE level_id = $1`, levelID)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLevelNotFound
	}
	return nil
}
