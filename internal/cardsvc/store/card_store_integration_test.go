//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Run with: go test -tags integration ./internal/cardsvc/store/
// against disposable databases; every test drops the cards it wrote.

func TestPostgresCardStoreSuite(t *testing.T) {
	dsn := os.Getenv("CARDBOT_TEST_POSTGRES_URL")
	if testing.Short() || dsn == "" {
		t.Skip("CARDBOT_TEST_POSTGRES_URL not set")
	}

	suite.Run(t, &CardStoreSuite{
		newStore: func(t *testing.T) CardStore {
			s, err := Open(context.Background(), dsn, 5)
			require.NoError(t, err)
			_, err = s.(*PostgresCardStore).db.Exec(context.Background(), "TRUNCATE cards")
			require.NoError(t, err)
			return s
		},
	})
}

func TestMongoCardStoreSuite(t *testing.T) {
	uri := os.Getenv("CARDBOT_TEST_MONGODB_URL")
	if testing.Short() || uri == "" {
		t.Skip("CARDBOT_TEST_MONGODB_URL not set")
	}

	suite.Run(t, &CardStoreSuite{
		newStore: func(t *testing.T) CardStore {
			s, err := Open(context.Background(), uri, 5)
			require.NoError(t, err)
			_, err = s.(*MongoCardStore).cards.DeleteMany(context.Background(), map[string]any{})
			require.NoError(t, err)
			return s
		},
	})
}
