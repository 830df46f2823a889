package member

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moolaigym/gymcore/internal/member/inbound"
	"github.com/moolaigym/gymcore/internal/member/outbound/db"
	"github.com/moolaigym/gymcore/internal/member/outbound/mq"
	"github.com/moolaigym/gymcore/internal/member/outbound/otp"
	"github.com/moolaigym/gymcore/internal/member/usecase"
	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goroutine"
	"github.com/moolaigym/gymcore/internal/pkg/hash"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
	"github.com/moolaigym/gymcore/internal/pkg/messaging"
	"github.com/moolaigym/gymcore/internal/pkg/router"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
	vusecase "github.com/moolaigym/gymcore/internal/verification/usecase"
)

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	Goroutine    *goroutine.Manager         `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Messaging    messaging.Messaging        `validate:"required"`
	Idempotency  idempotency.Idempotency    `validate:"required"`
	Verification *vusecase.Usecase          `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	Bcrypt       hash.Hash                  `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	JWT          jwt.JWT                    `validate:"required"`
}

// New wires the member module and returns its usecase, which also serves as
// the session checker for the router.
func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	dbMember := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	otpManager := otp.NewManager(dep.Verification)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbMember,
		RepoMessaging: repoMsg,
		OTP:           otpManager,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, router.RequirePinSession(dep.JWT, uc))

	return uc, nil
}
