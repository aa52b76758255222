// Package events héberge l'abonné de notification : il consomme l'événement
// de domaine "request.changed", requête lui-même la liste des demandes en
// attente, et pousse le snapshot complet sur le topic du destinataire.
// Ni l'orchestrateur ni cet abonné ne connaissent le type concret de l'autre.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/secondary/eventbroker"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/ports"
)

// NotifySubjectPrefix : un topic par destinataire, notify.user.<id>.
const NotifySubjectPrefix = "notify.user."

// NotificationPayload est le snapshot complet livré aux abonnés : toujours la
// liste courante recalculée, jamais un diff incrémental.
type NotificationPayload struct {
	UserID   string                  `json:"userId"`
	Requests []*domain.FollowRequest `json:"requests"`
}

type Notifier struct {
	conn     *nats.Conn
	service  ports.FollowRequestService
	timeout  time.Duration
	consumer jetstream.ConsumeContext
}

func NewNotifier(conn *nats.Conn, service ports.FollowRequestService, timeout time.Duration) *Notifier {
	return &Notifier{conn: conn, service: service, timeout: timeout}
}

// Start pose un consommateur durable sur le stream FRIENDSHIP.
func (n *Notifier) Start(ctx context.Context) error {
	js, err := jetstream.New(n.conn)
	if err != nil {
		return fmt.Errorf("jetstream init: %w", err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, eventbroker.StreamName, jetstream.ConsumerConfig{
		Durable:       "friendship-notifier",
		FilterSubject: eventbroker.SubjectRequestChanged,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	cc, err := consumer.Consume(n.handle)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	n.consumer = cc
	return nil
}

func (n *Notifier) Stop() {
	if n.consumer != nil {
		n.consumer.Stop()
	}
}

func (n *Notifier) handle(msg jetstream.Msg) {
	defer func() {
		if err := msg.Ack(); err != nil {
			slog.Error("ack failed", "error", err)
		}
	}()

	var event eventbroker.RequestChangedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("invalid request-changed event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	requests, err := n.service.GetPendingFollowRequests(ctx, event.UserID)
	if err != nil {
		slog.Error("refreshing pending list for notification failed", "user_id", event.UserID, "error", err)
		return
	}
	if requests == nil {
		requests = []*domain.FollowRequest{}
	}

	data, err := json.Marshal(NotificationPayload{UserID: event.UserID, Requests: requests})
	if err != nil {
		slog.Error("marshal notification failed", "user_id", event.UserID, "error", err)
		return
	}

	// Publication best-effort, at-most-once : pas d'ack, pas de rejeu.
	if err := n.conn.Publish(NotifySubjectPrefix+event.UserID, data); err != nil {
		slog.Error("notification publish failed", "user_id", event.UserID, "error", err)
		return
	}
	slog.Debug("notification pushed", "user_id", event.UserID, "pending", len(requests))
}
