package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/mission"
	"infinityHealthAPI/internal/profile"
)

var (
	ErrMissionNotFound         = errors.New("mission not found")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrMissionAlreadyStarted   = errors.New("mission already started today")
	ErrMissionAlreadyCompleted = errors.New("mission already completed")
	ErrMissionAlreadyFailed    = errors.New("mission already failed")
	ErrMissionLevelLocked      = errors.New("mission requires a higher level")
)

type MissionService struct {
	db           *pgxpool.Pool
	notifService *NotificationService
}

func NewMissionService(db *pgxpool.Pool, notifService *NotificationService) *MissionService {
	return &MissionService{db: db, notifService: notifService}
}

const missionColumns = `id, title, description, type, reward_exp, reward_points, start_time, end_time, min_level, target_value, target_unit, icon, is_active, created_at, updated_at`

func scanMission(row pgx.Row) (*mission.Mission, error) {
	m := &mission.Mission{}
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Type, &m.RewardExp, &m.RewardPoints,
		&m.StartTime, &m.EndTime, &m.MinLevel, &m.TargetValue, &m.TargetUnit,
		&m.Icon, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

const userMissionColumns = `id, user_id, mission_id, epoch_day, progress_current, progress_total, mission_status, completed_at, created_at, updated_at`

func scanUserMission(row pgx.Row) (*mission.UserMission, error) {
	um := &mission.UserMission{}
	var epochDay time.Time
	err := row.Scan(
		&um.ID, &um.UserID, &um.MissionID, &epochDay,
		&um.Progress.Current, &um.Progress.Total, &um.Status,
		&um.CompletedAt, &um.CreatedAt, &um.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	um.EpochDay = mission.EpochFromTime(epochDay)
	return um, nil
}

// ListActive returns all active catalog missions, optionally filtered by
// kind, challenges before dailies and newest first within each kind.
func (s *MissionService) ListActive(ctx context.Context, kind *mission.Kind) ([]*mission.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE is_active = TRUE ORDER BY type, created_at DESC`
	args := []any{}
	if kind != nil {
		query = `SELECT ` + missionColumns + ` FROM missions WHERE is_active = TRUE AND type = $1 ORDER BY created_at DESC`
		args = append(args, *kind)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*mission.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return missions, nil
}

func (s *MissionService) GetMission(ctx context.Context, id uuid.UUID) (*mission.Mission, error) {
	m, err := scanMission(s.db.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMissionNotFound
		}
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	return m, nil
}

func (s *MissionService) CreateMission(ctx context.Context, req *mission.CreateMissionRequest) (*mission.Mission, error) {
	startTime := req.StartTime
	if startTime == "" {
		startTime = "00:00"
	}
	endTime := req.EndTime
	if endTime == "" {
		endTime = "23:59"
	}
	minLevel := req.MinLevel
	if minLevel == 0 {
		minLevel = 1
	}

	query := `
	INSERT INTO missions (id, title, description, type, reward_exp, reward_points, start_time, end_time, min_level, target_value, target_unit, icon)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING ` + missionColumns

	m, err := scanMission(s.db.QueryRow(
		ctx, query,
		uuid.New(), req.Title, req.Description, req.Type, req.RewardExp, req.RewardPoints,
		startTime, endTime, minLevel, req.TargetValue, req.TargetUnit, req.Icon,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}
	return m, nil
}

// UpdateMission applies a partial catalog edit. Existing attempts keep their
// progress_total snapshot; a target change only affects attempts created
// afterwards.
func (s *MissionService) UpdateMission(ctx context.Context, id uuid.UUID, req *mission.UpdateMissionRequest) (*mission.Mission, error) {
	m, err := s.GetMission(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Type != nil {
		m.Type = *req.Type
	}
	if req.RewardExp != nil {
		m.RewardExp = *req.RewardExp
	}
	if req.RewardPoints != nil {
		m.RewardPoints = *req.RewardPoints
	}
	if req.StartTime != nil {
		m.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		m.EndTime = *req.EndTime
	}
	if req.MinLevel != nil {
		m.MinLevel = *req.MinLevel
	}
	if req.TargetValue != nil {
		m.TargetValue = *req.TargetValue
	}
	if req.TargetUnit != nil {
		m.TargetUnit = *req.TargetUnit
	}
	if req.Icon != nil {
		m.Icon = *req.Icon
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if m.RewardExp < 0 || m.RewardPoints < 0 {
		return nil, fmt.Errorf("rewards must be non-negative")
	}
	if m.TargetValue <= 0 {
		return nil, fmt.Errorf("target_value must be positive")
	}
	if m.MinLevel < 1 {
		return nil, fmt.Errorf("min_level must be at least 1")
	}

	query := `
	UPDATE missions
	SET title = $2, description = $3, type = $4, reward_exp = $5, reward_points = $6,
	    start_time = $7, end_time = $8, min_level = $9, target_value = $10,
	    target_unit = $11, icon = $12, is_active = $13, updated_at = now()
	WHERE id = $1
	RETURNING ` + missionColumns

	updated, err := scanMission(s.db.QueryRow(
		ctx, query,
		m.ID, m.Title, m.Description, m.Type, m.RewardExp, m.RewardPoints,
		m.StartTime, m.EndTime, m.MinLevel, m.TargetValue, m.TargetUnit,
		m.Icon, m.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update mission: %w", err)
	}
	return updated, nil
}

func (s *MissionService) DeleteMission(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// GetUserMissions joins the active catalog with the user's attempts for the
// given epoch. Missions without an attempt get a nil status and zero
// progress against the current target. Read-only: no attempt or profile row
// is created here.
func (s *MissionService) GetUserMissions(ctx context.Context, userID string, epoch mission.Epoch) ([]*mission.MissionWithStatus, error) {
	userLevel := 1
	err := s.db.QueryRow(ctx, `SELECT level_id FROM profiles WHERE user_id = $1`, userID).Scan(&userLevel)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get profile level: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT `+missionColumns+` FROM missions WHERE is_active = TRUE ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*mission.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attemptRows, err := s.db.Query(ctx,
		`SELECT `+userMissionColumns+` FROM user_missions WHERE user_id = $1 AND epoch_day = $2`,
		userID, string(epoch),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list user missions: %w", err)
	}
	defer attemptRows.Close()

	attempts := make(map[uuid.UUID]*mission.UserMission)
	for attemptRows.Next() {
		um, err := scanUserMission(attemptRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user mission: %w", err)
		}
		attempts[um.MissionID] = um
	}
	if err := attemptRows.Err(); err != nil {
		return nil, err
	}

	views := make([]*mission.MissionWithStatus, 0, len(missions))
	for _, m := range missions {
		v := &mission.MissionWithStatus{Mission: *m}
		if m.Type == mission.KindChallenge {
			v.IsLocked = userLevel < m.MinLevel
		}

		if um, ok := attempts[m.ID]; ok {
			status := um.Status
			v.UserStatus = mission.UserStatus{
				Status:      &status,
				Progress:    um.Progress,
				CompletedAt: um.CompletedAt,
			}
		} else {
			v.UserStatus = mission.UserStatus{
				Progress: mission.Progress{Current: 0, Total: m.TargetValue},
			}
		}
		views = append(views, v)
	}

	return mission.OrderMissionViews(views), nil
}

// StartMission opens an in_progress attempt for the epoch. The attempt
// snapshots the mission's current target as progress_total.
func (s *MissionService) StartMission(ctx context.Context, userID string, missionID uuid.UUID, epoch mission.Epoch) (*mission.UserMission, error) {
	m, err := s.GetMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO user_missions (id, user_id, mission_id, epoch_day, progress_current, progress_total, mission_status)
	VALUES ($1, $2, $3, $4, 0, $5, 'in_progress')
	ON CONFLICT (user_id, mission_id, epoch_day) DO NOTHING
	RETURNING ` + userMissionColumns

	um, err := scanUserMission(s.db.QueryRow(ctx, query, uuid.New(), userID, missionID, string(epoch), m.TargetValue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMissionAlreadyStarted
		}
		return nil, fmt.Errorf("failed to start mission: %w", err)
	}
	return um, nil
}

// UpdateProgress sets the attempt's current progress, clamped to
// [0, progress_total]. An attempt is created lazily if none exists for the
// epoch. Progress never transitions status: crossing the target does not
// complete the mission, and an update against a terminal attempt (completed
// or failed) is rejected. The lazy-create and clamp run as a single upsert
// so concurrent first updates cannot double-create.
func (s *MissionService) UpdateProgress(ctx context.Context, userID string, missionID uuid.UUID, epoch mission.Epoch, newCurrent float64) (*mission.UserMission, error) {
	m, err := s.GetMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO user_missions (id, user_id, mission_id, epoch_day, progress_current, progress_total, mission_status)
	VALUES ($1, $2, $3, $4, $5, $6, 'in_progress')
	ON CONFLICT (user_id, mission_id, epoch_day) DO UPDATE
	SET progress_current = LEAST(GREATEST($7::double precision, 0), user_missions.progress_total),
	    updated_at = now()
	WHERE user_missions.mission_status = 'in_progress'
	RETURNING ` + userMissionColumns

	um, err := scanUserMission(s.db.QueryRow(
		ctx, query,
		uuid.New(), userID, missionID, string(epoch),
		mission.ClampCurrent(newCurrent, m.TargetValue), m.TargetValue, newCurrent,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.terminalAttemptError(ctx, userID, missionID, epoch)
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return um, nil
}

// CompleteMission marks the epoch's attempt completed and grants the
// mission's rewards, atomically. The status transition is a conditional
// upsert guarded on mission_status = 'in_progress', so of two racing calls
// exactly one observes a returned row and pays out; the loser sees the
// terminal state and gets an error. The reward is applied as an in-place
// increment (never read-compute-write) with the level recomputed in the same
// statement, inside the same transaction as the status flip.
//
// If no attempt exists yet, one is synthesized at full progress and
// completed directly ("mark as done").
func (s *MissionService) CompleteMission(ctx context.Context, userID string, missionID uuid.UUID, epoch mission.Epoch) (*mission.UserMission, *mission.Rewards, error) {
	m, err := s.GetMission(ctx, missionID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var prevLevel int
	err = tx.QueryRow(ctx, `SELECT level_id FROM profiles WHERE user_id = $1`, userID).Scan(&prevLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		// First engine interaction for this user: bootstrap the profile.
		_, err = tx.Exec(ctx, `INSERT INTO profiles (id, user_id) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`, uuid.New(), userID)
		if err == nil {
			err = tx.QueryRow(ctx, `SELECT level_id FROM profiles WHERE user_id = $1`, userID).Scan(&prevLevel)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if m.Type == mission.KindChallenge && prevLevel < m.MinLevel {
		return nil, nil, ErrMissionLevelLocked
	}

	casQuery := `
	INSERT INTO user_missions (id, user_id, mission_id, epoch_day, progress_current, progress_total, mission_status, completed_at)
	VALUES ($1, $2, $3, $4, $5, $5, 'completed', now())
	ON CONFLICT (user_id, mission_id, epoch_day) DO UPDATE
	SET mission_status = 'completed',
	    progress_current = user_missions.progress_total,
	    completed_at = now(),
	    updated_at = now()
	WHERE user_missions.mission_status = 'in_progress'
	RETURNING ` + userMissionColumns

	um, err := scanUserMission(tx.QueryRow(ctx, casQuery, uuid.New(), userID, missionID, string(epoch), m.TargetValue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, s.terminalAttemptError(ctx, userID, missionID, epoch)
		}
		return nil, nil, fmt.Errorf("failed to complete mission: %w", err)
	}

	var newLevel, newExp, newPoints int
	err = tx.QueryRow(ctx, `
	UPDATE profiles
	SET exp = exp + $2,
	    points = points + $3,
	    level_id = GREATEST(level_id, (exp + $2) / $4 + 1),
	    updated_at = now()
	WHERE user_id = $1
	RETURNING level_id, exp, points`,
		userID, m.RewardExp, m.RewardPoints, profile.ExpPerLevel,
	).Scan(&newLevel, &newExp, &newPoints)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to grant rewards: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	if newLevel > prevLevel && s.notifService != nil {
		if err := s.notifService.NotifyLevelUp(ctx, userID, newLevel); err != nil {
			log.Printf("Level-up notification failed for %s: %v", userID, err)
		}
	}

	return um, &mission.Rewards{Exp: m.RewardExp, Points: m.RewardPoints}, nil
}

func (s *MissionService) terminalAttemptError(ctx context.Context, userID string, missionID uuid.UUID, epoch mission.Epoch) error {
	var status mission.Status
	err := s.db.QueryRow(ctx,
		`SELECT mission_status FROM user_missions WHERE user_id = $1 AND mission_id = $2 AND epoch_day = $3`,
		userID, missionID, string(epoch),
	).Scan(&status)
	if err != nil {
		return fmt.Errorf("failed to read attempt state: %w", err)
	}
	if status == mission.StatusFailed {
		return ErrMissionAlreadyFailed
	}
	return ErrMissionAlreadyCompleted
}

// FailMission marks the epoch's attempt failed. No rewards move, so the
// operation is idempotent: failing an already-terminal attempt returns the
// existing record unchanged.
func (s *MissionService) FailMission(ctx context.Context, userID string, missionID uuid.UUID, epoch mission.Epoch) (*mission.UserMission, error) {
	m, err := s.GetMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO user_missions (id, user_id, mission_id, epoch_day, progress_current, progress_total, mission_status)
	VALUES ($1, $2, $3, $4, 0, $5, 'failed')
	ON CONFLICT (user_id, mission_id, epoch_day) DO UPDATE
	SET mission_status = 'failed',
	    updated_at = now()
	WHERE user_missions.mission_status = 'in_progress'
	RETURNING ` + userMissionColumns

	um, err := scanUserMission(s.db.QueryRow(ctx, query, uuid.New(), userID, missionID, string(epoch), m.TargetValue))
	if err == nil {
		return um, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to fail mission: %w", err)
	}

	// Already terminal: return the record as-is.
	um, err = scanUserMission(s.db.QueryRow(ctx,
		`SELECT `+userMissionColumns+` FROM user_missions WHERE user_id = $1 AND mission_id = $2 AND epoch_day = $3`,
		userID, missionID, string(epoch),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt state: %w", err)
	}
	return um, nil
}
