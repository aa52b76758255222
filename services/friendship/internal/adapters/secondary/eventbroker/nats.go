package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "FRIENDSHIP"
	SubjectPattern = "friendship.events.>"

	// SubjectRequestChanged porte l'événement de domaine : "la liste des
	// demandes en attente de ce destinataire a changé".
	SubjectRequestChanged = "friendship.events.request.changed"
)

// RequestChangedEvent est le payload minimal : le destinataire seulement.
// C'est l'abonné qui requête lui-même l'état courant, pas l'émetteur.
type RequestChangedEvent struct {
	UserID string `json:"user_id"`
}

type NatsBroker struct {
	js jetstream.JetStream
}

// NewNatsBroker s'assure que le stream existe (idempotent).
func NewNatsBroker(conn *nats.Conn) (*NatsBroker, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{js: js}, nil
}

func (n *NatsBroker) PublishRequestChanged(ctx context.Context, recipientID string) error {
	data, err := json.Marshal(RequestChangedEvent{UserID: recipientID})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := n.js.Publish(ctx, SubjectRequestChanged, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
