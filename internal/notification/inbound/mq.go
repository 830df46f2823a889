package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goroutine"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/messaging"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	idemp idempotency.Idempotency,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, idemp: idemp, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name    string // consumer group, also the toggle in configuration
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.MemberOTPIssuedDestinationConsumerNotification,
			topic:   event.MemberOTPIssuedDestination,
			handler: mqHandler.MemberOTPIssuedNotification,
		},
		{
			name:    event.MemberAccountLockedDestinationConsumerNotification,
			topic:   event.MemberAccountLockedDestination,
			handler: mqHandler.MemberAccountLockedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithGroup(consumer.name),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
				)
			})
		}
	}
}
