// Package goroutine запускает фоновые горутины с перехватом panic,
// чтобы падение одного подключения или фоновой задачи не роняло процесс.
package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/jobledger/internal/logger"
)

// SafeGo запускает fn в горутине с перехватом panic.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext запускает fn с контекстом в горутине с перехватом panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		if logger.Log != nil {
			logger.Log.Errorf("panic в горутине: %v\n%s", r, debug.Stack())
		}
	}
}
