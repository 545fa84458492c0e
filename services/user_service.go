package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"infinityHealthAPI/internal/user"
	"infinityHealthAPI/middleware"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt password hash and a sequential
// public id (u000001, u000002, ...), bootstraps the default profile, and
// returns a signed token. User and profile are created in one transaction.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	publicID, err := s.nextPublicID(ctx, tx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:       uuid.New().String(),
		UserID:   publicID,
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
	}

	err = tx.QueryRow(ctx, `
	INSERT INTO users (id, user_id, full_name, email, password_hash)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at`,
		u.ID, u.UserID, u.FullName, u.Email, string(hash),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO profiles (id, user_id) VALUES ($1, $2)`, uuid.New(), u.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	token, err := middleware.SignToken(u.UserID)
	if err != nil {
		return nil, err
	}

	return &user.AuthResponse{Token: token, User: u}, nil
}

// nextPublicID assigns the next u%06d id. The ids are zero-padded so the
// lexicographic max is also the numeric max.
func (s *UserService) nextPublicID(ctx context.Context, tx pgx.Tx) (string, error) {
	var last string
	err := tx.QueryRow(ctx, `SELECT user_id FROM users ORDER BY user_id DESC LIMIT 1 FOR UPDATE`).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "u000001", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last user id: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimPrefix(last, "u"))
	if err != nil {
		return "", fmt.Errorf("malformed user id %q in database", last)
	}
	return fmt.Sprintf("u%06d", n+1), nil
}

func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u := &user.User{}
	var hash string
	err := s.db.QueryRow(ctx, `
	SELECT id, user_id, full_name, email, password_hash, avatar, created_at, updated_at
	FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.UserID, &u.FullName, &u.Email, &hash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := middleware.SignToken(u.UserID)
	if err != nil {
		return nil, err
	}

	return &user.AuthResponse{Token: token, User: u}, nil
}

func (s *UserService) GetUserByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	u := &user.User{}
	err := s.db.QueryRow(ctx, `
	SELECT id, user_id, full_name, email, avatar, created_at, updated_at
	FROM users WHERE user_id = $1`, publicID,
	).Scan(&u.ID, &u.UserID, &u.FullName, &u.Email, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
