package usecase

import (
	"context"
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/hash"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/otpcode"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
	"github.com/moolaigym/gymcore/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateCodeSuperseding(ctx context.Context, code entity.NewCode) (superseded int64, err error)
	ClaimCode(ctx context.Context, contact string, purpose entity.Purpose, codeHash string, now time.Time) (entity.ClaimResult, error)
	DeleteCodesExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	code      otpcode.Generator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Code       otpcode.Generator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		code:      dep.Code,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}
