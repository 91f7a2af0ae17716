package records

import (
	"context"

	"go.uber.org/zap"
)

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is the uniform user-facing result of a load or mutation
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier receives notices
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// LogNotifier writes notices to a zap logger
func LogNotifier(log *zap.Logger) Notifier {
	return NotifierFunc(func(_ context.Context, n Notice) {
		title := zap.String("title", n.Title)
		switch n.Level {
		case LevelError:
			log.Error(n.Message, title)
		case LevelWarning:
			log.Warn(n.Message, title)
		default:
			log.Info(n.Message, title)
		}
	})
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// denyAll refuses every confirmation
var denyAll = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

var discard = NotifierFunc(func(context.Context, Notice) {})
