// Package idempotency tracks operation state in Redis so retried requests
// and duplicate consumer deliveries run their effect once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
)

type state string

const (
	stateNone       state = "none"
	stateInProgress state = "in_progress"
	stateCompleted  state = "completed"
	stateFailed     state = "failed"
	stateError      state = "error"
)

// Idempotency guards an operation identified by key: the first caller runs
// it, concurrent and repeated callers get the recorded outcome instead.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

type Option func(*execOptions)

// WithLockDuration bounds how long the in-progress claim holds if the
// process dies mid-operation.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long the completed or failed outcome is remembered.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// StateTracker implements Idempotency on a Redis key per operation.
type StateTracker struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	st, err := s.claim(ctx, key, execOpt.lockDuration)
	if err != nil {
		return err
	}

	switch st {
	case stateInProgress:
		return ErrAlreadyInProgress
	case stateCompleted:
		return ErrAlreadyCompleted
	case stateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		if markErr := s.record(ctx, key, stateFailed, execOpt.stateTTL); markErr != nil {
			return markErr
		}
		return err
	}

	return s.record(ctx, key, stateCompleted, execOpt.stateTTL)
}

// claim atomically takes the in-progress slot for the key, or reports the
// state a previous caller left behind.
func (s *StateTracker) claim(ctx context.Context, key string, lockDuration time.Duration) (state, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, string(stateInProgress), lockDuration).Result()
	if err != nil {
		return stateError, err
	}
	if acquired {
		return stateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// key expired between SetNX and Get; try once more
		acquired, err = s.client.SetNX(ctx, fk, string(stateInProgress), lockDuration).Result()
		if err != nil {
			return stateError, err
		}
		if acquired {
			return stateNone, nil
		}
		return stateError, ErrInvalidState
	}
	if err != nil {
		return stateError, err
	}

	switch state(result) {
	case stateInProgress, stateCompleted, stateFailed:
		return state(result), nil
	default:
		return stateError, ErrInvalidState
	}
}

func (s *StateTracker) record(ctx context.Context, key string, st state, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, string(st), ttl).Err()
}
