// Package notify delivers transient user notifications (toasts) about the
// outcome of back-office operations.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier must not block the caller for long and must not fail it; delivery
// problems are the notifier's own business.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// LogNotifier writes notifications to the process loggers.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	fields := logrus.Fields{"level": n.Level}
	if userID, ok := UserFrom(ctx); ok {
		fields["user_id"] = userID
	}
	if n.Level == LevelError {
		utils.ErrorLogger.WithFields(fields).Error(n.Message)
		return
	}
	utils.InfoLogger.WithFields(fields).Info(n.Message)
}

func Success(ctx context.Context, n Notifier, message string) {
	send(ctx, n, LevelSuccess, message)
}

func Error(ctx context.Context, n Notifier, message string) {
	send(ctx, n, LevelError, message)
}

func Info(ctx context.Context, n Notifier, message string) {
	send(ctx, n, LevelInfo, message)
}

func send(ctx context.Context, n Notifier, level Level, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: level, Message: message, Time: time.Now()})
}

type userKey struct{}

// WithUser tags ctx with the authenticated staff user so notifications reach
// only that user's connections.
func WithUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func UserFrom(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(userKey{}).(uint)
	return id, ok
}
