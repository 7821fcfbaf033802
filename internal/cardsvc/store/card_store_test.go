package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avvvet/card-registry/internal/cardsvc/models"
)

// CardStoreSuite runs the same behaviour checks against every backend.
type CardStoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) CardStore
	store    CardStore
	ctx      context.Context
}

func (s *CardStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func (s *CardStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *CardStoreSuite) ownerCards(owner string) []models.Card {
	cards, err := s.store.ListCards(s.ctx)
	s.Require().NoError(err)

	var out []models.Card
	for _, c := range cards {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	return out
}

func (s *CardStoreSuite) TestUpsert() {
	s.Run("first write creates the row", func() {
		card, err := s.store.UpsertCard(s.ctx, "U1", "1234567890ABCDEF", "alice")
		s.Require().NoError(err)
		s.Equal("1234567890ABCDEF", card.ID)
		s.Equal("U1", card.OwnerID)
		s.Equal("alice", card.Username)
		s.True(card.Created())
		s.False(card.CreatedAt.IsZero())
	})

	s.Run("second write overwrites in place", func() {
		card, err := s.store.UpsertCard(s.ctx, "U1", "FEDCBA0987654321", "alice2")
		s.Require().NoError(err)
		s.Equal("FEDCBA0987654321", card.ID)
		s.Equal("alice2", card.Username)
		s.Equal(int64(2), card.Revision)
		s.False(card.Created())

		rows := s.ownerCards("U1")
		s.Require().Len(rows, 1)
		s.Equal("FEDCBA0987654321", rows[0].ID)
		s.Equal("alice2", rows[0].Username)
	})
}

func (s *CardStoreSuite) TestGetCard() {
	s.Run("returns the owner's card", func() {
		_, err := s.store.UpsertCard(s.ctx, "U1", "1234567890ABCDEF", "alice")
		s.Require().NoError(err)

		card, err := s.store.GetCard(s.ctx, "U1")
		s.Require().NoError(err)
		s.Equal("alice", card.Username)
		s.Equal("1234567890ABCDEF", card.ID)
	})

	s.Run("returns ErrNotFound for unknown owner", func() {
		_, err := s.store.GetCard(s.ctx, "nobody")
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *CardStoreSuite) TestListCards() {
	s.Run("empty registry is an empty slice", func() {
		cards, err := s.store.ListCards(s.ctx)
		s.Require().NoError(err)
		s.NotNil(cards)
		s.Empty(cards)
	})

	s.Run("lists every owner once in insertion order", func() {
		_, err := s.store.UpsertCard(s.ctx, "U1", "1234567890ABCDEF", "alice")
		s.Require().NoError(err)
		_, err = s.store.UpsertCard(s.ctx, "U3", "AAAAAAAAAAAAAAAA", "carol")
		s.Require().NoError(err)
		_, err = s.store.UpsertCard(s.ctx, "U1", "BBBBBBBBBBBBBBBB", "alice")
		s.Require().NoError(err)

		cards, err := s.store.ListCards(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(cards, 2)
		s.Equal("U1", cards[0].OwnerID)
		s.Equal("BBBBBBBBBBBBBBBB", cards[0].ID)
		s.Equal("U3", cards[1].OwnerID)
	})
}

// TestConcurrentSameOwner verifies racing writes for one owner leave one row and lose no update.
func (s *CardStoreSuite) TestConcurrentSameOwner() {
	const writers = 20

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.store.UpsertCard(s.ctx, "U1", fmt.Sprintf("%016X", i), "alice")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	rows := s.ownerCards("U1")
	s.Require().Len(rows, 1)
	s.Equal(int64(writers), rows[0].Revision, "every write must be applied exactly once")
}

// TestConcurrentDistinctOwners verifies writes from different owners never interfere.
func (s *CardStoreSuite) TestConcurrentDistinctOwners() {
	const owners = 20

	var wg sync.WaitGroup
	errs := make(chan error, owners)
	for i := 0; i < owners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.store.UpsertCard(s.ctx, fmt.Sprintf("owner-%d", i), fmt.Sprintf("%016X", i), fmt.Sprintf("user-%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	cards, err := s.store.ListCards(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, owners)

	seen := map[string]models.Card{}
	for _, c := range cards {
		seen[c.OwnerID] = c
	}
	for i := 0; i < owners; i++ {
		card, ok := seen[fmt.Sprintf("owner-%d", i)]
		s.Require().True(ok)
		s.Equal(fmt.Sprintf("%016X", i), card.ID)
		s.Equal(fmt.Sprintf("user-%d", i), card.Username)
		s.True(card.Created())
	}
}
