package mq

import (
	"context"
	"encoding/json"

	"github.com/moolaigym/gymcore/internal/member/usecase"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/messaging"
	"github.com/moolaigym/gymcore/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("member.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.MemberOTPIssuedMessage{
		MemberID:  msg.MemberID,
		Email:     msg.Email,
		FullName:  msg.FullName,
		Purpose:   msg.Purpose,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.MemberOTPIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishAccountLocked(ctx context.Context, msg usecase.AccountLockedEvent) error {
	ctx, span := m.ins.Tracer("member.outbound.mq").Start(ctx, "PublishAccountLocked")
	defer span.End()

	body, err := json.Marshal(event.MemberAccountLockedMessage{
		MemberID:    msg.MemberID,
		Email:       msg.Email,
		FullName:    msg.FullName,
		Scope:       msg.Scope,
		Attempts:    msg.Attempts,
		LockedUntil: msg.LockedUntil,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.MemberAccountLockedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
