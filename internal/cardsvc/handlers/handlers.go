package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/avvvet/card-registry/internal/cardsvc/metrics"
	"github.com/avvvet/card-registry/internal/cardsvc/models"
	log "github.com/sirupsen/logrus"
)

// PasswordHeader carries the shared secret for the card list.
const PasswordHeader = "password"

type CardLister interface {
	ListCards(ctx context.Context) (models.CardList, error)
}

type Handler struct {
	cards    CardLister
	password string
	metrics  *metrics.Metrics
}

func NewHandler(cards CardLister, password string, m *metrics.Metrics) *Handler {
	return &Handler{
		cards:    cards,
		password: password,
		metrics:  m,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "card service is running",
		Code:    http.StatusOK,
	})
}

func (h *Handler) authorized(r *http.Request) bool {
	values, ok := r.Header[http.CanonicalHeaderKey(PasswordHeader)]
	if !ok || len(values) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(values[0]), []byte(h.password)) == 1
}

// CardsHandler serves the whole registry to callers holding the shared secret.
func (h *Handler) CardsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.metrics.IncListRequest("unauthorized")
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}

	list, err := h.cards.ListCards(r.Context())
	if err != nil {
		h.metrics.IncListRequest("error")
		log.Errorf("Error [CardsHandler] could not get cards from database: %s", err)
		http.Error(w, "could not get cards from database", http.StatusInternalServerError)
		return
	}

	h.metrics.IncListRequest("ok")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(list); err != nil {
		log.Errorf("Failed to encode card list: %v", err)
	}
}
