package store

import (
	"context"
	"errors"

	"github.com/avvvet/card-registry/internal/cardsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCardStore struct {
	db *pgxpool.Pool
}

func NewPostgresCardStore(db *pgxpool.Pool) *PostgresCardStore {
	return &PostgresCardStore{db: db}
}

func (s *PostgresCardStore) UpsertCard(ctx context.Context, ownerID, cardID, username string) (*models.Card, error) {
	query := `
		INSERT INTO cards (id, owner_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET
			id = EXCLUDED.id,
			username = EXCLUDED.username,
			revision = cards.revision + 1,
			updated_at = now()
		RETURNING id, owner_id, username, revision, created_at, updated_at
	`

	var card models.Card
	err := s.db.QueryRow(ctx, query, cardID, ownerID, username).Scan(
		&card.ID,
		&card.OwnerID,
		&card.Username,
		&card.Revision,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("upsert card", err)
	}
	return &card, nil
}

func (s *PostgresCardStore) GetCard(ctx context.Context, ownerID string) (*models.Card, error) {
	query := `
		SELECT id, owner_id, username, revision, created_at, updated_at
		FROM cards
		WHERE owner_id = $1
	`

	var card models.Card
	err := s.db.QueryRow(ctx, query, ownerID).Scan(
		&card.ID,
		&card.OwnerID,
		&card.Username,
		&card.Revision,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("get card", err)
	}
	return &card, nil
}

func (s *PostgresCardStore) ListCards(ctx context.Context) ([]models.Card, error) {
	rows, err := s.db.Query(ctx, `
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
		var card models.Card
		if err := rows.Scan(
			&card.ID,
			&card.OwnerID,
			&card.Username,
			&card.Revision,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, wrap("scan card", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list cards", err)
	}
	return cards, nil
}

func (s *PostgresCardStore) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
