package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/notification/usecase"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/messaging"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

const dedupeStateTTL = 24 * time.Hour

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
	ConsumeAccountLocked(ctx context.Context, in usecase.ConsumeAccountLockedInput) error
}

type MQHandler struct {
	uc    uc
	idemp idempotency.Idempotency
	uuid  uid.StringID
	ins   instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// dedupe runs fn once per message. Redelivered messages (rebalances, broker
// retries) are dropped; the lock key is the broker message identity. A
// delivery failure is terminal: the error is logged, the failed state pins
// the message identity, and the message is acked rather than redelivered.
func (h *MQHandler) dedupe(ctx context.Context, key string, fn func(context.Context) error) error {
	err := h.idemp.Exec(ctx, "consume:"+key, fn, idempotency.WithStateTTL(dedupeStateTTL))
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "skipping duplicate message delivery", "key", key)
		return nil

	case errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "skipping previously failed message delivery", "key", key)
		return nil

	default:
		return err
	}
}

func (h *MQHandler) MemberOTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "MemberOTPIssuedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: member otp issued notification", "msg_id", msg.ID())

	var payload event.MemberOTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of member otp issued notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.dedupe(ctx, event.MemberOTPIssuedDestination+":"+msg.ID(), func(ctx context.Context) error {
		return h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
			MemberID:  payload.MemberID,
			Email:     payload.Email,
			FullName:  payload.FullName,
			Purpose:   payload.Purpose,
			Code:      payload.Code,
			ExpiresAt: payload.ExpiresAt,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume member otp issued", "msg_id", msg.ID(), "error", err)
	}

	return nil
}

func (h *MQHandler) MemberAccountLockedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "MemberAccountLockedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: member account locked notification", "msg_id", msg.ID())

	var payload event.MemberAccountLockedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of member account locked notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.dedupe(ctx, event.MemberAccountLockedDestination+":"+msg.ID(), func(ctx context.Context) error {
		return h.uc.ConsumeAccountLocked(ctx, usecase.ConsumeAccountLockedInput{
			MemberID:    payload.MemberID,
			Email:       payload.Email,
			FullName:    payload.FullName,
			Scope:       payload.Scope,
			Attempts:    payload.Attempts,
			LockedUntil: payload.LockedUntil,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume member account locked", "msg_id", msg.ID(), "error", err)
	}

	return nil
}
