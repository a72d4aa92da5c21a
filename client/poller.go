package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Snapshot is one observation of the caller's notification state.
type Snapshot struct {
	UnreadCount   int64
	Notifications []Notification
}

// Changed reports whether the badge or the newest visible item moved since
// prev. Consumers diff successive snapshots instead of tracking deltas.
func (s Snapshot) Changed(prev Snapshot) bool {
	if s.UnreadCount != prev.UnreadCount {
		return true
	}
	if len(s.Notifications) != len(prev.Notifications) {
		return true
	}
	if len(s.Notifications) == 0 {
		return false
	}
	return s.Notifications[0].ID != prev.Notifications[0].ID
}

// Poller periodically fetches the latest notifications for one session.
// Fetches never overlap: the next tick fires on a fixed-period timer and a
// slow response simply absorbs the following tick.
type Poller struct {
	client   *Client
	interval time.Duration
	limit    int
	log      *zap.Logger
}

func NewPoller(c *Client, interval time.Duration, limit int, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if limit <= 0 {
		limit = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{client: c, interval: interval, limit: limit, log: log}
}

// Run polls until ctx is cancelled and returns a channel of snapshots. One
// snapshot is delivered per successful fetch, starting with an immediate
// fetch before the first tick; failed fetches are logged and skipped. The
// channel is closed when the loop stops.
func (p *Poller) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			p.poll(ctx, out)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (p *Poller) poll(ctx context.Context, out chan<- Snapshot) {
	list, unread, err := p.client.Notifications(ctx, p.limit)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn("poll failed", zap.Error(err))
		}
		return
	}
	snap := Snapshot{UnreadCount: unread, Notifications: list}
	select {
	case out <- snap:
	case <-ctx.Done():
	}
}
