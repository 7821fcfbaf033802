// Package store persists the owner to card registry.
//
// Every backend implements UpsertCard as a single conditional write against
// the owner_id uniqueness constraint, so concurrent registrations by the same
// owner never produce two rows or lose one of the writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/card-registry/internal/cardsvc/db"
	"github.com/avvvet/card-registry/internal/cardsvc/models"
)

var ErrNotFound = errors.New("card not found")

// Error is a failure reported by the storage backend.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

type CardStore interface {
	// UpsertCard inserts the owner's card or overwrites its id and username.
	UpsertCard(ctx context.Context, ownerID, cardID, username string) (*models.Card, error)
	// GetCard returns ErrNotFound when the owner has no card.
	GetCard(ctx context.Context, ownerID string) (*models.Card, error)
	// ListCards returns every card in insertion order.
	ListCards(ctx context.Context) ([]models.Card, error)
	Close() error
}

type backend int

const (
	backendSQLite backend = iota
	backendPostgres
	backendMongo
)

func (b backend) String() string {
	switch b {
	case backendPostgres:
		return "postgres"
	case backendMongo:
		return "mongodb"
	default:
		return "sqlite"
	}
}

// backendFor picks a backend from the storage location and returns the
// location in the form that backend's driver expects.
func backendFor(location string) (backend, string) {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return backendPostgres, location
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return backendMongo, location
	case strings.HasPrefix(lower, "sqlite://"):
		return backendSQLite, location[len("sqlite://"):]
	default:
		return backendSQLite, location
	}
}

// Open connects to the storage location with a pool of maxConns connections
// and prepares the schema.
func Open(ctx context.Context, location string, maxConns int) (CardStore, error) {
	kind, target := backendFor(location)
	switch kind {
	case backendPostgres:
		pool, err := db.ConnectPostgres(ctx, target, maxConns)
		if err != nil {
			return nil, wrap("open postgres", err)
		}
		return NewPostgresCardStore(pool), nil
	case backendMongo:
		database, err := db.ConnectMongo(ctx, target, maxConns)
		if err != nil {
			return nil, wrap("open mongodb", err)
		}
		return NewMongoCardStore(database), nil
	default:
		sqlDB, err := db.OpenSQLite(ctx, target, maxConns)
		if err != nil {
			return nil, wrap("open sqlite", err)
		}
		return NewSQLiteCardStore(sqlDB), nil
	}
}

// Backend names the driver Open would use for location.
func Backend(location string) string {
	kind, _ := backendFor(location)
	return kind.String()
}
