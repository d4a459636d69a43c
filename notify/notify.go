package notify

import (
	"context"
	"evently-backend/logger"
)

// Emitter delivers box office notifications. Delivery is fail-open: an
// emitter must never propagate a delivery failure into the operation that
// produced the notification.
type Emitter interface {
	Emit(ctx context.Context, kind string, payload interface{})
}

// NewLog returns an emitter that writes notifications to the application
// log.
func NewLog() Emitter {
	return &logEmitter{}
}

type logEmitter struct{}

func (e *logEmitter) Emit(ctx context.Context, kind string, payload interface{}) {
	logger.Infof(ctx, "notify: %s: %+v", kind, payload)
}

// NewFanout returns an emitter that forwards every notification to each of
// the given emitters in order.
func NewFanout(emitters ...Emitter) Emitter {
	return &fanout{emitters: emitters}
}

type fanout struct {
	emitters []Emitter
}

func (f *fanout) Emit(ctx context.Context, kind string, payload interface{}) {
	for _, e := range f.emitters {
		e.Emit(ctx, kind, payload)
	}
}
