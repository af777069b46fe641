package worker

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pollit/internal/domain/comment"
	"pollit/internal/domain/vote"
	"pollit/internal/realtime"
)

// Event carries one broadcast job: a fresh tally after an accepted vote,
// or a newly created comment.
type Event struct {
	PollID  uuid.UUID
	Tally   *vote.Tally
	Comment *comment.Comment
}

// Broadcaster moves publish work off the request path: handlers push
// events into a buffered channel and respond immediately; delivery to
// room members happens here.
type Broadcaster struct {
	ch     <-chan Event
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewBroadcaster(ch <-chan Event, hub *realtime.Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{ch: ch, hub: hub, logger: logger}
}

func (b *Broadcaster) Run(ctx context.Context) {
	b.logger.Info("broadcast worker started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("broadcast worker stopped")
			return
		case ev := <-b.ch:
			if ev.Tally != nil {
				b.hub.PublishResults(ev.PollID, ev.Tally)
			}
			if ev.Comment != nil {
				b.hub.PublishComment(ev.Comment)
			}
		}
	}
}
