package service

import (
	"context"
	"errors"

	"github.com/avvvet/card-registry/internal/cardsvc/cardid"
	"github.com/avvvet/card-registry/internal/cardsvc/metrics"
	"github.com/avvvet/card-registry/internal/cardsvc/models"
	"github.com/avvvet/card-registry/internal/cardsvc/store"
	log "github.com/sirupsen/logrus"
)

type RegisterStatus int

const (
	RegisterCreated RegisterStatus = iota
	RegisterUpdated
	RegisterInvalidFormat
	RegisterStorageFailed
)

func (s RegisterStatus) String() string {
	switch s {
	case RegisterCreated:
		return "created"
	case RegisterUpdated:
		return "updated"
	case RegisterInvalidFormat:
		return "invalid_format"
	default:
		return "storage_failed"
	}
}

type RegisterResult struct {
	Status RegisterStatus
	Card   *models.Card // set for Created and Updated
	Err    error
}

type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotRegistered
	LookupStorageFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotRegistered:
		return "not_registered"
	default:
		return "storage_failed"
	}
}

type LookupResult struct {
	Status LookupStatus
	Card   *models.Card // set for Found
	Err    error
}

// Notifier is told about every successful registration.
type Notifier interface {
	CardRegistered(card models.Card)
}

// CardService is the command side of the registry: register-or-update and
// own-card lookup, both keyed by a platform-authenticated owner id.
type CardService struct {
	store    store.CardStore
	metrics  *metrics.Metrics
	notifier Notifier
}

func NewCardService(store store.CardStore, m *metrics.Metrics, notifier Notifier) *CardService {
	return &CardService{
		store:    store,
		metrics:  m,
		notifier: notifier,
	}
}

// Register validates rawCardID and stores it as ownerID's card, replacing any
// previous one. An invalid id never reaches the store.
func (s *CardService) Register(ctx context.Context, ownerID, rawCardID, displayName string) RegisterResult {
	res := s.register(ctx, ownerID, rawCardID, displayName)
	s.metrics.IncRegistration(res.Status.String())
	return res
}

func (s *CardService) register(ctx context.Context, ownerID, rawCardID, displayName string) RegisterResult {
	id, err := cardid.Parse(rawCardID)
	if err != nil {
		return RegisterResult{Status: RegisterInvalidFormat, Err: err}
	}

	card, err := s.store.UpsertCard(ctx, ownerID, id, displayName)
	if err != nil {
		log.Errorf("Error [CardStore.UpsertCard] owner %s: %s", ownerID, err)
		return RegisterResult{Status: RegisterStorageFailed, Err: err}
	}

	if s.notifier != nil {
		s.notifier.CardRegistered(*card)
	}

	if card.Created() {
		return RegisterResult{Status: RegisterCreated, Card: card}
	}
	return RegisterResult{Status: RegisterUpdated, Card: card}
}

// MyCard returns the card registered by ownerID.
func (s *CardService) MyCard(ctx context.Context, ownerID string) LookupResult {
	res := s.myCard(ctx, ownerID)
	s.metrics.IncLookup(res.Status.String())
	return res
}

func (s *CardService) myCard(ctx context.Context, ownerID string) LookupResult {
	card, err := s.store.GetCard(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return LookupResult{Status: LookupNotRegistered, Err: err}
	}
	if err != nil {
		log.Errorf("Error [CardStore.GetCard] owner %s: %s", ownerID, err)
		return LookupResult{Status: LookupStorageFailed, Err: err}
	}
	return LookupResult{Status: LookupFound, Card: card}
}

// ListCards returns the whole registry as a single page.
func (s *CardService) ListCards(ctx context.Context) (models.CardList, error) {
	cards, err := s.store.ListCards(ctx)
	if err != nil {
		return models.CardList{}, err
	}
	return models.NewCardList(cards), nil
}
