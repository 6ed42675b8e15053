package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/yourorg/gadhub/internal/models"
)

// ErrDuplicateKey is returned by Insert when the database rejects a row that
// collides with an existing email or student ID. This backs the racy
// pre-check in the auth service.
var ErrDuplicateKey = errors.New("duplicate key")

// UserStore is the persistence contract for user records. Lookups return
// (nil, nil) when no record matches; absence is an expected result, not an
// error.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrStudentID(ctx context.Context, email, studentID string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (int64, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string, birthday time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateAvatar(ctx context.Context, id int64, avatar models.Avatar) error
}

// MySQLUserStore implements UserStore on a MySQL/MariaDB users table.
type MySQLUserStore struct {
	db *sql.DB
}

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

const userColumns = `id, student_id, email, first_name, last_name, birthday, password_hash, avatar_storage_id, avatar_url, created_at`

func (s *MySQLUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *MySQLUserStore) FindByEmailOrStudentID(ctx context.Context, email, studentID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? OR student_id = ? LIMIT 1`, email, studentID)
	return scanUser(row)
}

func (s *MySQLUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *MySQLUserStore) Insert(ctx context.Context, u *models.User) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (student_id, email, first_name, last_name, birthday, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.StudentID, u.Email, u.FirstName, u.LastName, u.Birthday, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrDuplicateKey
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySQLUserStore) UpdateProfile(ctx context.Context, id int64, firstName, lastName string, birthday time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, birthday = ? WHERE id = ?`,
		firstName, lastName, birthday, id)
	return err
}

func (s *MySQLUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	return err
}

func (s *MySQLUserStore) UpdateAvatar(ctx context.Context, id int64, avatar models.Avatar) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET avatar_storage_id = ?, avatar_url = ? WHERE id = ?`,
		avatar.StorageID, avatar.URL, id)
	return err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u               models.User
		avatarStorageID sql.NullString
		avatarURL       sql.NullString
	)
	err := row.Scan(&u.ID, &u.StudentID, &u.Email, &u.FirstName, &u.LastName,
		&u.Birthday, &u.PasswordHash, &avatarStorageID, &avatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if avatarStorageID.Valid && avatarURL.Valid {
		u.Avatar = &models.Avatar{StorageID: avatarStorageID.String, URL: avatarURL.String}
	}
	return &u, nil
}
