package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// envelope est le format de réponse sur le câble : data OU error, jamais les deux.
type envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// Client est l'abstraction requête/réponse vers un pair nommé par son sujet.
// Le timeout vient TOUJOURS du contexte de l'appelant ; le client n'en fournit
// aucun par défaut, et ne fournit pas non plus de valeur de repli.
type Client struct {
	conn *nats.Conn
}

func NewClient(conn *nats.Conn) *Client {
	return &Client{conn: conn}
}

// Invoke encode req en JSON, attend la réponse du pair et décode dans resp.
// resp peut être nil si l'appelant ignore le corps. Deux issues possibles :
// un payload typé, ou une erreur (*Error applicative, ou unavailable pour
// timeout / connexion / absence de répondeur).
func (c *Client) Invoke(ctx context.Context, subject string, req, resp any) error {
	if _, ok := ctx.Deadline(); !ok {
		return fmt.Errorf("rpc: call to %s without deadline", subject)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("rpc: marshal request for %s: %w", subject, err)
	}

	tracer := otel.Tracer("pkg/rpc")
	ctx, span := tracer.Start(ctx, "rpc.invoke "+subject, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	msg := nats.NewMsg(subject)
	msg.Data = data
	// Propagation du contexte de trace dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	reply, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, nats.ErrNoResponders) {
			return Errorf(KindUnavailable, "no responders on %s", subject)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Errorf(KindUnavailable, "call to %s timed out", subject)
		}
		return Errorf(KindUnavailable, "call to %s failed: %v", subject, err)
	}

	var env envelope
	if err := json.Unmarshal(reply.Data, &env); err != nil {
		return fmt.Errorf("rpc: malformed reply from %s: %w", subject, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if resp != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, resp); err != nil {
			return fmt.Errorf("rpc: decode reply from %s: %w", subject, err)
		}
	}
	return nil
}
