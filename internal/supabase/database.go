package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"roomgpt-backend/internal/database"
	"roomgpt-backend/internal/models"
)

type DatabaseClient struct {
	db      *sql.DB
	timeout time.Duration
}

func NewDatabaseClient(connectionString string, timeout time.Duration) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db, timeout: timeout}, nil
}

func (d *DatabaseClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// EnsureUser creates the user with the given starting balance unless the email is already known.
func (d *DatabaseClient) EnsureUser(ctx context.Context, email string, credits int) (*models.User, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if _, err := d.db.ExecContext(ctx, database.QueryEnsureUser, uuid.New(), email, credits); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return d.getUser(ctx, email)
}

func (d *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	return d.getUser(ctx, email)
}

func (d *DatabaseClient) getUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, database.QueryGetUserByEmail, email).Scan(
		&user.ID, &user.Email, &user.Credits, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// DecrementCredits takes one credit. With requirePositive set, a balance of zero or less
// is left untouched and ErrInsufficientCredits is returned.
func (d *DatabaseClient) DecrementCredits(ctx context.Context, email string, requirePositive bool) (int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := database.QueryChargeCreditUnchecked
	if requirePositive {
		query = database.QueryChargeCredit
	}

	var credits int
	err := d.db.QueryRowContext(ctx, query, email).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := d.getUser(ctx, email); err != nil {
			return 0, err
		}
		return 0, models.ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement credits: %w", err)
	}
	return credits, nil
}

func (d *DatabaseClient) IncrementCredits(ctx context.Context, email string) (int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var credits int
	err := d.db.QueryRowContext(ctx, database.QueryRefundCredit, email).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment credits: %w", err)
	}
	return credits, nil
}

// CreateRoom stores a generation for the user owning email. UserID and CreatedAt are filled in.
func (d *DatabaseClient) CreateRoom(ctx context.Context, email string, room *models.Room) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	err := d.db.QueryRowContext(ctx, database.QueryCreateRoom,
		room.ID, email, room.InputImage, room.OutputImage, room.Prompt,
	).Scan(&room.UserID, &room.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetRoom(ctx context.Context, roomID uuid.UUID, email string) (*models.Room, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var room models.Room
	err := d.db.QueryRowContext(ctx, database.QueryGetRoom, roomID, email).Scan(
		&room.ID, &room.UserID, &room.InputImage, &room.OutputImage, &room.Prompt, &room.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (d *DatabaseClient) ListRooms(ctx context.Context, email string, limit int) ([]models.Room, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, database.QueryListRooms, email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID, &room.UserID, &room.InputImage, &room.OutputImage, &room.Prompt, &room.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
