package app

import (
	"context"
	"errors"
	"sync"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
	"github.com/moolaigym/gymcore/internal/pkg/router"
)

// sessionRegistry lets the router be built before the member module that
// actually checks sessions. The router holds the registry; the member module
// binds into it once wired.
type sessionRegistry struct {
	mu      sync.RWMutex
	checker router.SessionChecker
}

func (s *sessionRegistry) Bind(c router.SessionChecker) {
	s.mu.Lock()
	s.checker = c
	s.mu.Unlock()
}

func (s *sessionRegistry) CheckSession(ctx context.Context, claims jwt.Claims) (context.Context, error) {
	s.mu.RLock()
	checker := s.checker
	s.mu.RUnlock()

	if checker == nil {
		return ctx, goerror.NewServer(errors.New("session checker is not bound"))
	}

	return checker.CheckSession(ctx, claims)
}
