package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avvvet/card-registry/internal/cardsvc/models"
)

type SQLiteCardStore struct {
	db *sql.DB
}

func NewSQLiteCardStore(db *sql.DB) *SQLiteCardStore {
	return &SQLiteCardStore{db: db}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func (s *SQLiteCardStore) UpsertCard(ctx context.Context, ownerID, cardID, username string) (*models.Card, error) {
	query := `
		INSERT INTO cards (id, owner_id, username, revision, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET
			id = excluded.id,
			username = excluded.username,
			revision = cards.revision + 1,
			updated_at = excluded.updated_at
		RETURNING id, owner_id, username, revision, created_at, updated_at
	`

	now := toMillis(time.Now())
	card, err := scanSQLiteCard(s.db.QueryRowContext(ctx, query, cardID, ownerID, username, now, now))
	if err != nil {
		return nil, wrap("upsert card", err)
	}
	return card, nil
}

func (s *SQLiteCardStore) GetCard(ctx context.Context, ownerID string) (*models.Card, error) {
	query := `
		SELECT id, owner_id, username, revision, created_at, updated_at
		FROM cards
		WHERE owner_id = ?
	`

	card, err := scanSQLiteCard(s.db.QueryRowContext(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("get card", err)
	}
	return card, nil
}

func (s *SQLiteCardStore) ListCards(ctx context.Context) ([]models.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, username, revision, created_at, updated_at
		FROM cards
		ORDER BY seq
	`)
	if err != nil {
		return nil, wrap("list cards", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanSQLiteCard(rows)
		if err != nil {
			return nil, wrap("scan card", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list cards", err)
	}
	return cards, nil
}

func (s *SQLiteCardStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCard(row rowScanner) (*models.Card, error) {
	var (
		card             models.Card
		created, updated int64
	)
	if err := row.Scan(&card.ID, &card.OwnerID, &card.Username, &card.Revision, &created, &updated); err != nil {
		return nil, err
	}
	card.CreatedAt = fromMillis(created)
	card.UpdatedAt = fromMillis(updated)
	return &card, nil
}
