package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goroutine"
	"github.com/moolaigym/gymcore/internal/pkg/hash"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
	"github.com/moolaigym/gymcore/internal/pkg/mail"
	"github.com/moolaigym/gymcore/internal/pkg/messaging"
	"github.com/moolaigym/gymcore/internal/pkg/otpcode"
	"github.com/moolaigym/gymcore/internal/pkg/router"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otpcode   otpcode.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	sessions   *sessionRegistry
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:      ctx,
		cancel:   cancel,
		sessions: &sessionRegistry{},
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
