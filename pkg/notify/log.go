package notify

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// Log writes notices to a logger. It is the default backend for the CLI,
// where stderr is the user-visible channel.
type Log struct {
	logger hclog.Logger
}

var _ Notifier = (*Log)(nil)

// NewLog creates a log backend.
func NewLog(logger hclog.Logger) *Log {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Log{logger: logger}
}

func (l *Log) Name() string {
	return "log"
}

func (l *Log) Notify(ctx context.Context, n Notice) error {
	args := []interface{}{}
	if n.Kind != "" {
		args = append(args, "kind", n.Kind)
	}
	if n.RequestID != "" {
		args = append(args, "request_id", n.RequestID)
	}

	switch n.Level {
	case LevelError:
		l.logger.Error(n.Message, args...)
	case LevelWarning:
		l.logger.Warn(n.Message, args...)
	default:
		l.logger.Info(n.Message, args...)
	}
	return nil
}
