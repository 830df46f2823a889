package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/moolaigym/gymcore/internal/pkg/stacktrace"
)

// runHandler contains handler panics so one bad message cannot take down the
// whole consumer loop.
func runHandler(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			paths := stacktrace.InternalPaths(stack)
			if len(paths) == 0 {
				slog.ErrorContext(ctx, "panic in message handler", "panic", rvr, "stack", string(stack))
			} else {
				slog.ErrorContext(ctx, "panic in message handler", "panic", rvr, "stack", paths)
			}
			err = fmt.Errorf("messaging: panic in handler: %v", rvr)
		}
	}()

	return fn()
}
