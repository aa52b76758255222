package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc traite une requête décodée et rend un payload ou une erreur.
// Les erreurs qui ne sont pas des *Error sont mappées via l'ErrorMapper du
// routeur, puis en interne si le mapper ne les reconnaît pas.
type HandlerFunc func(ctx context.Context, data []byte) (any, error)

// ErrorMapper traduit les erreurs du domaine en erreurs d'enveloppe.
// Retourne nil si l'erreur n'est pas reconnue.
type ErrorMapper func(err error) *Error

// Router enregistre les handlers par sujet et les expose en groupe de files
// (queue group) : une seule instance du service répond à chaque requête.
type Router struct {
	name     string
	timeout  time.Duration
	mapper   ErrorMapper
	handlers map[string]HandlerFunc
	subs     []*nats.Subscription
}

func NewRouter(name string, timeout time.Duration, mapper ErrorMapper) *Router {
	return &Router{
		name:     name,
		timeout:  timeout,
		mapper:   mapper,
		handlers: map[string]HandlerFunc{},
	}
}

func (r *Router) Handle(subject string, fn HandlerFunc) {
	r.handlers[subject] = fn
}

// Listen pose une souscription par sujet enregistré. Le groupe de files porte
// le nom du service.
func (r *Router) Listen(conn *nats.Conn) error {
	for subject, fn := range r.handlers {
		sub, err := conn.QueueSubscribe(subject, r.name, r.wrap(subject, fn))
		if err != nil {
			return fmt.Errorf("rpc: subscribe %s: %w", subject, err)
		}
		r.subs = append(r.subs, sub)
	}
	return nil
}

// Close draine les souscriptions (les requêtes en vol finissent leur course).
func (r *Router) Close() {
	for _, sub := range r.subs {
		_ = sub.Drain()
	}
}

func (r *Router) wrap(subject string, fn HandlerFunc) nats.MsgHandler {
	tracer := otel.Tracer(r.name)
	return func(msg *nats.Msg) {
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		ctx, span := tracer.Start(ctx, "rpc.handle "+subject, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panicked", "subject", subject, "panic", rec)
				r.reply(msg, nil, Errorf(KindInternal, "internal error"))
			}
		}()

		payload, err := fn(ctx, msg.Data)
		if err != nil {
			span.RecordError(err)
			r.reply(msg, nil, r.toWire(err))
			return
		}
		r.reply(msg, payload, nil)
	}
}

func (r *Router) toWire(err error) *Error {
	if rpcErr, ok := err.(*Error); ok {
		return rpcErr
	}
	if r.mapper != nil {
		if mapped := r.mapper(err); mapped != nil {
			return mapped
		}
	}
	// Pas de fuite de détails internes vers le pair
	slog.Error("unmapped handler error", "service", r.name, "error", err)
	return Errorf(KindInternal, "internal error")
}

func (r *Router) reply(msg *nats.Msg, payload any, appErr *Error) {
	env := envelope{Error: appErr}
	if appErr == nil && payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Error("reply marshal failed", "subject", msg.Subject, "error", err)
			env = envelope{Error: Errorf(KindInternal, "internal error")}
		} else {
			env.Data = data
		}
	}

	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("envelope marshal failed", "subject", msg.Subject, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Error("reply failed", "subject", msg.Subject, "error", err)
	}
}

// Decode est l'utilitaire commun des handlers pour décoder la requête.
func Decode[T any](data []byte) (T, error) {
	var req T
	if err := json.Unmarshal(data, &req); err != nil {
		return req, Errorf(KindValidation, "malformed request: %v", err)
	}
	return req, nil
}
