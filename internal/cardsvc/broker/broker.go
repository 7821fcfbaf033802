package broker

import (
	"encoding/json"

	"github.com/avvvet/card-registry/internal/cardsvc/models"
	"github.com/avvvet/card-registry/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const Topic = "card.service"

type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// CardRegistered publishes a card-registered message for downstream consumers.
func (b *Broker) CardRegistered(card models.Card) {
	payload, err := encodeCardRegistered(card)
	if err != nil {
		log.Errorf("[CardRegistered] unable to marshal card for owner %s: %s", card.OwnerID, err)
		return
	}

	b.Publish(Topic, payload)
}

func encodeCardRegistered(card models.Card) ([]byte, error) {
	data, err := json.Marshal(comm.CardRegistered{
		ID:       card.ID,
		OwnerID:  card.OwnerID,
		Name:     card.Username,
		Created:  card.Created(),
		Revision: card.Revision,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(&comm.Message{
		Type: "card-registered",
		Data: data,
	})
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
