package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/yourorg/gadhub/internal/models"
)

// ContentStore persists the informational content the app lists: circulars,
// resolutions, programs, and hotlines.
type ContentStore struct {
	db *sql.DB
}

func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListCirculars(ctx context.Context) ([]models.Circular, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, summary, COALESCE(file_url, ''), published_at
		FROM circulars ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Circular{}
	for rows.Next() {
		var c models.Circular
		if err := rows.Scan(&c.ID, &c.Title, &c.Summary, &c.FileURL, &c.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *ContentStore) InsertCircular(ctx context.Context, title, summary, fileURL string, publishedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO circulars (title, summary, file_url, published_at) VALUES (?, ?, ?, ?)
	`, title, summary, nullIfEmpty(fileURL), publishedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *ContentStore) ListResolutions(ctx context.Context) ([]models.Resolution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, title, COALESCE(file_url, ''), approved_at
		FROM resolutions ORDER BY approved_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Resolution{}
	for rows.Next() {
		var r models.Resolution
		if err := rows.Scan(&r.ID, &r.Number, &r.Title, &r.FileURL, &r.ApprovedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (s *ContentStore) InsertResolution(ctx context.Context, number, title, fileURL string, approvedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO resolutions (number, title, file_url, approved_at) VALUES (?, ?, ?, ?)
	`, number, title, nullIfEmpty(fileURL), approvedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *ContentStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, venue, starts_at
		FROM programs ORDER BY starts_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Program{}
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Venue, &p.StartsAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *ContentStore) InsertProgram(ctx context.Context, title, description, venue string, startsAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO programs (title, description, venue, starts_at) VALUES (?, ?, ?, ?)
	`, title, description, venue, startsAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *ContentStore) ListHotlines(ctx context.Context) ([]models.Hotline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, office, phone, category FROM hotlines ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Hotline{}
	for rows.Next() {
		var h models.Hotline
		if err := rows.Scan(&h.ID, &h.Name, &h.Office, &h.Phone, &h.Category); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (s *ContentStore) InsertHotline(ctx context.Context, name, office, phone, category string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO hotlines (name, office, phone, category) VALUES (?, ?, ?, ?)
	`, name, office, phone, category)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
