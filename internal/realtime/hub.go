// Package realtime fans freshly computed tallies and new comments out to
// every connection watching a poll. Delivery is best-effort: nothing here
// participates in the vote's transactional outcome.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"pollit/internal/domain/comment"
	"pollit/internal/domain/vote"
)

// Event is the wire shape of everything the hub pushes.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventPollResults = "pollResults"
	EventNewComment  = "newComment"
)

const clientBuffer = 64

// Client is one connected viewer. The transport owns its lifecycle; the
// hub only ever sees it as a send target.
type Client struct {
	mu     sync.Mutex
	out    chan Event
	closed bool
}

func NewClient() *Client {
	return &Client{out: make(chan Event, clientBuffer)}
}

// Events is the stream the transport drains into the connection.
func (c *Client) Events() <-chan Event {
	return c.out
}

// trySend queues an event without blocking. A full buffer means the
// client is too slow; the event is dropped for that client only.
func (c *Client) trySend(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.out <- ev:
		return true
	default:
		return false
	}
}

// Close ends the event stream. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}

type room struct {
	mu      sync.RWMutex
	members map[*Client]struct{}
	// dropped marks a room that was removed from the registry while
	// empty; a join racing with that removal retries on a fresh room.
	dropped bool
}

// Hub is the poll-room registry. It is constructed once at startup and
// injected wherever publishing happens; there is no package-level
// instance.
type Hub struct {
	logger *zap.Logger
	rooms  *xsync.Map[string, *room]
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  xsync.NewMap[string, *room](),
	}
}

// JoinPoll subscribes c to a poll's result updates. Malformed poll ids
// change no membership and report no error to the caller.
func (h *Hub) JoinPoll(c *Client, pollID string) {
	h.join(c, pollRoomKey, pollID)
}

func (h *Hub) LeavePoll(c *Client, pollID string) {
	h.leave(c, pollRoomKey, pollID)
}

func (h *Hub) JoinComments(c *Client, pollID string) {
	h.join(c, commentRoomKey, pollID)
}

func (h *Hub) LeaveComments(c *Client, pollID string) {
	h.leave(c, commentRoomKey, pollID)
}

// RemoveAll drops c from every room. The websocket transport calls this
// when a connection goes away.
func (h *Hub) RemoveAll(c *Client) {
	h.rooms.Range(func(key string, r *room) bool {
		h.removeMember(key, r, c)
		return true
	})
}

// PublishResults delivers the tally to every current member of the poll's
// room, in publish order per member. Members joining afterwards receive
// only future publishes.
func (h *Hub) PublishResults(pollID uuid.UUID, tally *vote.Tally) {
	h.publish(pollRoomKey(pollID.String()), Event{Type: EventPollResults, Payload: map[string]any{
		"pollId":     pollID,
		"totalVotes": tally.TotalVotes,
		"results":    tally.Results,
	}})
}

// PublishComment delivers a newly created comment to the poll's comment
// room.
func (h *Hub) PublishComment(c *comment.Comment) {
	h.publish(commentRoomKey(c.PollID.String()), Event{Type: EventNewComment, Payload: c})
}

// RoomSize reports current membership; zero for unknown or malformed ids.
func (h *Hub) RoomSize(pollID string) int {
	key, ok := validKey(pollRoomKey, pollID)
	if !ok {
		return 0
	}
	r, ok := h.rooms.Load(key)
	if !ok {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func pollRoomKey(pollID string) string    { return "poll:" + pollID }
func commentRoomKey(pollID string) string { return "comments:" + pollID }

// validKey enforces the UUID shape of poll ids before they become room
// keys; anything else is treated as noise.
func validKey(keyFn func(string) string, pollID string) (string, bool) {
	if len(pollID) != 36 {
		return "", false
	}
	if _, err := uuid.Parse(pollID); err != nil {
		return "", false
	}
	return keyFn(pollID), true
}

func (h *Hub) join(c *Client, keyFn func(string) string, pollID string) {
	key, ok := validKey(keyFn, pollID)
	if !ok {
		h.logger.Debug("ignoring join with malformed poll id", zap.String("poll_id", pollID))
		return
	}

	for {
		r, _ := h.rooms.LoadOrStore(key, &room{members: make(map[*Client]struct{})})
		r.mu.Lock()
		if r.dropped {
			r.mu.Unlock()
			continue
		}
		r.members[c] = struct{}{}
		r.mu.Unlock()
		return
	}
}

// leave is idempotent: leaving a room one is not in, or a malformed id,
// is a no-op.
func (h *Hub) leave(c *Client, keyFn func(string) string, pollID string) {
	key, ok := validKey(keyFn, pollID)
	if !ok {
		return
	}
	r, ok := h.rooms.Load(key)
	if !ok {
		return
	}
	h.removeMember(key, r, c)
}

func (h *Hub) removeMember(key string, r *room, c *Client) {
	r.mu.Lock()
	delete(r.members, c)
	if len(r.members) == 0 && !r.dropped {
		r.dropped = true
		h.rooms.Delete(key)
	}
	r.mu.Unlock()
}

func (h *Hub) publish(key string, ev Event) {
	r, ok := h.rooms.Load(key)
	if !ok {
		return
	}

	r.mu.RLock()
	members := make([]*Client, 0, len(r.members))
	for m := range r.members {
		members = append(members, m)
	}
	r.mu.RUnlock()

	var dropped int
	for _, m := range members {
		if !m.trySend(ev) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("dropped realtime events for slow or closed clients",
			zap.String("room", key),
			zap.String("event", ev.Type),
			zap.Int("dropped", dropped))
	}
}
