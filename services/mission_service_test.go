package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinityHealthAPI/internal/mission"
)

// Engine tests run against a real database. Set TEST_DATABASE_URL to a
// disposable Postgres instance; the schema is applied on first connect and
// relevant tables are truncated per test.
func setupEngineDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = db.Exec(ctx, `TRUNCATE user_missions, missions, profiles, notifications, device_tokens`)
	require.NoError(t, err)

	return db
}

func createTestMission(t *testing.T, svc *MissionService, kind mission.Kind, target float64, minLevel, rewardExp, rewardPoints int) *mission.Mission {
	t.Helper()

	m, err := svc.CreateMission(context.Background(), &mission.CreateMissionRequest{
		Title:        fmt.Sprintf("%s mission %d", kind, time.Now().UnixNano()),
		Type:         kind,
		RewardExp:    rewardExp,
		RewardPoints: rewardPoints,
		TargetValue:  target,
		TargetUnit:   "ml",
		MinLevel:     minLevel,
	})
	require.NoError(t, err)
	return m
}

func todayEpoch() mission.Epoch {
	return mission.EpochFromTime(time.Now())
}

func TestDailyMissionFlow(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	profiles := NewProfileService(db)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 2000, 1, 30, 5)
	epoch := todayEpoch()

	um, err := svc.UpdateProgress(ctx, "u000001", m.ID, epoch, 2000)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusInProgress, um.Status)
	assert.Equal(t, "2000/2000", um.Progress.String())

	um, rewards, err := svc.CompleteMission(ctx, "u000001", m.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCompleted, um.Status)
	require.NotNil(t, um.CompletedAt)
	assert.Equal(t, &mission.Rewards{Exp: 30, Points: 5}, rewards)

	p, err := profiles.GetProfile(ctx, "u000001")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Exp)
	assert.Equal(t, 5, p.Points)
	assert.Equal(t, 1, p.LevelID)

	_, _, err = svc.CompleteMission(ctx, "u000001", m.ID, epoch)
	assert.ErrorIs(t, err, ErrMissionAlreadyCompleted)

	// Rewards did not move on the rejected call.
	p, err = profiles.GetProfile(ctx, "u000001")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Exp)
	assert.Equal(t, 5, p.Points)
}

func TestCompleteMissionSynthesizesFullProgressAttempt(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 5000, 1, 50, 10)

	// "Mark as done" with no prior progress updates.
	um, rewards, err := svc.CompleteMission(ctx, "u000002", m.ID, todayEpoch())
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCompleted, um.Status)
	assert.Equal(t, "5000/5000", um.Progress.String())
	assert.Equal(t, 50, rewards.Exp)
}

func TestCompleteMissionConcurrentGrantsOnce(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	profiles := NewProfileService(db)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 30, 5)
	epoch := todayEpoch()

	_, err := svc.StartMission(ctx, "u000003", m.ID, epoch)
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.CompleteMission(ctx, "u000003", m.ID, epoch)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrMissionAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racer should win the completion")

	p, err := profiles.GetProfile(ctx, "u000003")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Exp, "reward granted exactly once")
	assert.Equal(t, 5, p.Points)
}

func TestUpdateProgressClamps(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	epoch := todayEpoch()

	um, err := svc.UpdateProgress(ctx, "u000004", m.ID, epoch, 500)
	require.NoError(t, err)
	assert.Equal(t, float64(100), um.Progress.Current, "overshoot clamps to total")
	assert.Equal(t, mission.StatusInProgress, um.Status, "crossing the target does not complete")

	um, err = svc.UpdateProgress(ctx, "u000004", m.ID, epoch, -50)
	require.NoError(t, err)
	assert.Equal(t, float64(0), um.Progress.Current, "negative clamps to zero")
}

func TestUpdateProgressRejectedAfterCompletion(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	epoch := todayEpoch()

	_, _, err := svc.CompleteMission(ctx, "u000005", m.ID, epoch)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(ctx, "u000005", m.ID, epoch, 50)
	assert.ErrorIs(t, err, ErrMissionAlreadyCompleted)
}

func TestUpdateProgressRejectedAfterFailure(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	epoch := todayEpoch()

	_, err := svc.UpdateProgress(ctx, "u000015", m.ID, epoch, 40)
	require.NoError(t, err)

	_, err = svc.FailMission(ctx, "u000015", m.ID, epoch)
	require.NoError(t, err)

	// Failed is terminal: the attempt's progress is frozen.
	_, err = svc.UpdateProgress(ctx, "u000015", m.ID, epoch, 90)
	assert.ErrorIs(t, err, ErrMissionAlreadyFailed)

	views, err := svc.GetUserMissions(ctx, "u000015", epoch)
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == m.ID {
			require.NotNil(t, v.UserStatus.Status)
			assert.Equal(t, mission.StatusFailed, *v.UserStatus.Status)
			assert.Equal(t, "40/100", v.UserStatus.Progress.String())
		}
	}
}

func TestChallengeLevelGate(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	profiles := NewProfileService(db)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindChallenge, 7, 11, 200, 50)
	epoch := todayEpoch()

	// Fresh user is level 1; min_level 11 stays locked even at full progress.
	_, err := svc.UpdateProgress(ctx, "u000006", m.ID, epoch, 7)
	require.NoError(t, err)

	_, _, err = svc.CompleteMission(ctx, "u000006", m.ID, epoch)
	assert.ErrorIs(t, err, ErrMissionLevelLocked)

	// Push the user past level 11 and the gate opens.
	_, err = profiles.AddExp(ctx, "u000006", 10_000)
	require.NoError(t, err)

	_, rewards, err := svc.CompleteMission(ctx, "u000006", m.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, 200, rewards.Exp)
}

func TestEpochIsolation(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)

	yesterday := mission.EpochFromTime(time.Now().AddDate(0, 0, -1))
	today := todayEpoch()

	_, _, err := svc.CompleteMission(ctx, "u000007", m.ID, yesterday)
	require.NoError(t, err)

	// A new epoch opens an independent attempt for the same mission.
	um, err := svc.UpdateProgress(ctx, "u000007", m.ID, today, 40)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusInProgress, um.Status)
	assert.Equal(t, float64(40), um.Progress.Current)

	_, _, err = svc.CompleteMission(ctx, "u000007", m.ID, today)
	require.NoError(t, err)

	// Yesterday's attempt stays terminal and untouched.
	views, err := svc.GetUserMissions(ctx, "u000007", yesterday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].UserStatus.Status)
	assert.Equal(t, mission.StatusCompleted, *views[0].UserStatus.Status)
}

func TestStartMissionTwiceRejected(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	epoch := todayEpoch()

	um, err := svc.StartMission(ctx, "u000008", m.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusInProgress, um.Status)
	assert.Equal(t, "0/100", um.Progress.String())

	_, err = svc.StartMission(ctx, "u000008", m.ID, epoch)
	assert.ErrorIs(t, err, ErrMissionAlreadyStarted)
}

func TestFailMission(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	profiles := NewProfileService(db)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 30, 5)
	epoch := todayEpoch()

	um, err := svc.FailMission(ctx, "u000009", m.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusFailed, um.Status)

	// Idempotent: failing again returns the record, no error.
	um, err = svc.FailMission(ctx, "u000009", m.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusFailed, um.Status)

	// Completing a failed attempt is rejected and pays nothing.
	_, _, err = svc.CompleteMission(ctx, "u000009", m.ID, epoch)
	assert.ErrorIs(t, err, ErrMissionAlreadyFailed)

	p, err := profiles.GetProfile(ctx, "u000009")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Exp)

	// Failing a completed attempt leaves it completed.
	m2 := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	_, _, err = svc.CompleteMission(ctx, "u000009", m2.ID, epoch)
	require.NoError(t, err)

	um, err = svc.FailMission(ctx, "u000009", m2.ID, epoch)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCompleted, um.Status)
}

func TestGetUserMissionsView(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	daily := createTestMission(t, svc, mission.KindDaily, 2000, 1, 30, 5)
	unlocked := createTestMission(t, svc, mission.KindChallenge, 3, 1, 100, 25)
	locked := createTestMission(t, svc, mission.KindChallenge, 7, 11, 200, 50)
	epoch := todayEpoch()

	_, err := svc.UpdateProgress(ctx, "u000010", daily.ID, epoch, 750)
	require.NoError(t, err)

	views, err := svc.GetUserMissions(ctx, "u000010", epoch)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Daily first, then unlocked challenge, then locked.
	assert.Equal(t, daily.ID, views[0].ID)
	assert.Equal(t, unlocked.ID, views[1].ID)
	assert.Equal(t, locked.ID, views[2].ID)

	assert.False(t, views[0].IsLocked)
	require.NotNil(t, views[0].UserStatus.Status)
	assert.Equal(t, mission.StatusInProgress, *views[0].UserStatus.Status)
	assert.Equal(t, "750/2000", views[0].UserStatus.Progress.String())

	// Missions without an attempt are synthesized with nil status and zero
	// progress against the current target.
	assert.Nil(t, views[1].UserStatus.Status)
	assert.Equal(t, "0/3", views[1].UserStatus.Progress.String())

	assert.True(t, views[2].IsLocked)

	// The view is read-only: no attempt rows were created for the synthesized
	// entries.
	var attempts int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM user_missions WHERE user_id = 'u000010'`).Scan(&attempts)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestUpdateMissionKeepsAttemptSnapshot(t *testing.T) {
	db := setupEngineDB(t)
	svc := NewMissionService(db, nil)
	ctx := context.Background()

	m := createTestMission(t, svc, mission.KindDaily, 100, 1, 10, 1)
	epoch := todayEpoch()

	um, err := svc.UpdateProgress(ctx, "u000011", m.ID, epoch, 60)
	require.NoError(t, err)
	assert.Equal(t, float64(100), um.Progress.Total)

	newTarget := 500.0
	_, err = svc.UpdateMission(ctx, m.ID, &mission.UpdateMissionRequest{TargetValue: &newTarget})
	require.NoError(t, err)

	// Existing attempt keeps the old snapshot.
	um, err = svc.UpdateProgress(ctx, "u000011", m.ID, epoch, 400)
	require.NoError(t, err)
	assert.Equal(t, float64(100), um.Progress.Total)
	assert.Equal(t, float64(100), um.Progress.Current, "clamped to the snapshot, not the new target")
}
