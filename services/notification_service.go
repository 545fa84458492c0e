package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/notification"
)

var ErrNotificationNotFound = errors.New("notification not found")

// PushProvider delivers push messages to registered devices. FCM is the
// production implementation; the service degrades to in-app only when no
// provider is configured.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db           *pgxpool.Pool
	pushProvider PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.pushProvider = p
}

const notificationColumns = `id, user_id, level_id, routine_id, title, message, is_read, created_at, updated_at`

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	n := &notification.Notification{}
	err := row.Scan(
		&n.ID, &n.UserID, &n.LevelID, &n.RoutineID,
		&n.Title, &n.Message, &n.IsRead, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) scanNotificationRows(rows pgx.Rows) ([]*notification.Notification, error) {
	defer rows.Close()

	var notifs []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifs, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]*notification.Notification, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return s.scanNotificationRows(rows)
}

func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]*notification.Notification, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 AND is_read = false ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return s.scanNotificationRows(rows)
}

func (s *NotificationService) GetNotification(ctx context.Context, userID string, id uuid.UUID) (*notification.Notification, error) {
	n, err := scanNotification(s.db.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO notifications (id, user_id, level_id, routine_id, title, message)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + notificationColumns

	n, err := scanNotification(s.db.QueryRow(ctx, query,
		uuid.New(), req.UserID, req.LevelID, req.RoutineID, req.Title, req.Message,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*notification.Notification, error) {
	n, err := scanNotification(s.db.QueryRow(ctx, `
	UPDATE notifications SET is_read = true, updated_at = now()
	WHERE id = $1 AND user_id = $2
	RETURNING `+notificationColumns, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true, updated_at = now() WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RegisterDevice stores a push token for the user. Re-registering the same
// token moves it to the new user, which covers device handoff between
// accounts.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	query := `
	INSERT INTO device_tokens (id, user_id, token, platform)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (token) DO UPDATE SET user_id = $2, platform = $4
	RETURNING id, user_id, token, platform, created_at`

	t := &notification.DeviceToken{}
	err := s.db.QueryRow(ctx, query, uuid.New(), userID, req.Token, req.Platform).
		Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return t, nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, token, platform, created_at FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// NotifyLevelUp records an in-app notification for the new level and pushes
// it to the user's devices. Push failures are logged, not returned; the
// in-app row is the source of truth.
func (s *NotificationService) NotifyLevelUp(ctx context.Context, userID string, newLevel int) error {
	title := "Level Up!"
	message := fmt.Sprintf("Congratulations, you reached level %d!", newLevel)

	_, err := s.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID:  userID,
		LevelID: &newLevel,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return err
	}

	if s.pushProvider == nil {
		return nil
	}

	tokens, err := s.deviceTokens(ctx, userID)
	if err != nil {
		log.Printf("level-up push skipped for %s: %v", userID, err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	data := map[string]any{"type": "level_up", "level": newLevel}
	if err := s.pushProvider.SendPush(ctx, tokens, title, message, data); err != nil {
		log.Printf("level-up push failed for %s: %v", userID, err)
	}
	return nil
}
