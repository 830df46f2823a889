package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/moolaigym/gymcore/internal/member"
	"github.com/moolaigym/gymcore/internal/notification"
	"github.com/moolaigym/gymcore/internal/verification"
	vusecase "github.com/moolaigym/gymcore/internal/verification/usecase"
)

func (a *App) initModules() {
	var verificationUC *vusecase.Usecase

	if a.config.GetBool("modules.verification.enabled") {
		uc, err := verification.New(verification.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			HMAC:       a.hmac,
			Code:       a.otpcode,
			Clock:      a.clock,
			Validator:  a.validator,
		})
		if err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
		verificationUC = uc
		a.runVerificationCleanup(uc)
	}

	if a.config.GetBool("modules.member.enabled") {
		if verificationUC == nil {
			slog.Error("failed to init module member", "error", errors.New("verification module must be enabled"))
			os.Exit(1)
		}

		uc, err := member.New(member.Dependency{
			DBConn:       a.dbConn,
			Goroutine:    a.goroutine,
			Router:       a.router,
			Messaging:    a.messaging,
			Idempotency:  a.idemp,
			Verification: verificationUC,
			Config:       a.config,
			Instrument:   a.ins,
			UID:          a.uid,
			Bcrypt:       a.bcrypt,
			Clock:        a.clock,
			Validator:    a.validator,
			JWT:          a.jwt,
		})
		if err != nil {
			slog.Error("failed to init module member", "error", err)
			os.Exit(1)
		}
		a.sessions.Bind(uc)
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}

// runVerificationCleanup purges long-expired codes on a fixed schedule for as
// long as the app runs. A failed run is logged and retried on the next tick.
func (a *App) runVerificationCleanup(uc *vusecase.Usecase) {
	interval := a.config.GetHour("modules.verification.cleanup_interval_hours")
	if interval <= 0 {
		interval = time.Hour
	}

	a.goroutine.Go(a.ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := uc.Cleanup(ctx); err != nil {
					slog.ErrorContext(ctx, "verification cleanup run failed", "error", err)
				}
			}
		}
	})
}
