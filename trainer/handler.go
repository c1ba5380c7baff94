package trainer

import (
	"strings"

	"github.com/billhsia/crfbind/logging"
)

// MessageHandler receives the engine's progress messages during Train.
//
// Handlers run synchronously and reentrantly inside the blocking Train call,
// on the same goroutine. They must not block against the engine. They may
// return an error or panic freely: the trainer converts either into a logged
// warning and resumes the engine as if the handler had succeeded.
type MessageHandler interface {
	HandleMessage(msg string) error
}

// MessageHandlerFunc adapts a plain function to MessageHandler.
type MessageHandlerFunc func(msg string) error

// HandleMessage calls the wrapped function.
func (f MessageHandlerFunc) HandleMessage(msg string) error {
	return f(msg)
}

// logHandler is the default handler: it logs every progress message at the
// informational level.
type logHandler struct {
	logger logging.Logger
}

func (h *logHandler) HandleMessage(msg string) error {
	h.logger.Info("training progress", "message", strings.TrimRight(msg, "\n"))
	return nil
}
