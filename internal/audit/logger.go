package audit

import (
	"context"

	"go.uber.org/zap"
)

// Recorder is the persistence the logger appends to.
type Recorder interface {
	InsertAuditEntry(ctx context.Context, action, table string, recordID, userID *int64) (int64, error)
}

// Logger appends one audit row per successful mutation. It never fails the
// caller: write errors are logged and dropped.
type Logger struct {
	rec Recorder
	log *zap.Logger
}

// New returns a Logger appending to rec.
func New(rec Recorder) *Logger {
	return &Logger{rec: rec, log: zap.L().Named("audit")}
}

type actorKey struct{}

// WithActor attaches the acting user id to ctx for later Log calls.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actor(ctx context.Context) *int64 {
	if id, ok := ctx.Value(actorKey{}).(int64); ok && id > 0 {
		return &id
	}
	return nil
}

// Log records action on table for recordID.
func (l *Logger) Log(ctx context.Context, action, table string, recordID int64) {
	if l == nil || l.rec == nil {
		return
	}
	id := recordID
	if _, err := l.rec.InsertAuditEntry(ctx, action, table, &id, actor(ctx)); err != nil {
		l.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("table", table),
			zap.Int64("record_id", recordID),
			zap.Error(err))
	}
}
