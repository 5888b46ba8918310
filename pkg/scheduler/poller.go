package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebenmoss/deskminder/pkg/alert"
	"github.com/ebenmoss/deskminder/pkg/models"
)

// DefaultInterval is the poll period. Comparisons are against absolute due
// times, so the period is a latency tunable, not a correctness constant.
const DefaultInterval = 30 * time.Second

// Source is the poller's view of the reminder store.
type Source interface {
	Revision() int64
	ListActive() []models.Reminder
	ListActiveSnoozed() []models.SnoozedItem
	Get(id int64) (models.Reminder, bool)
	GetSnoozed(id int64) (models.SnoozedItem, bool)
	Deactivate(id int64) error
	DeactivateSnoozed(id int64) error
}

// Sink receives dispatch requests. Enqueue must not block.
type Sink interface {
	Enqueue(req alert.Request) bool
}

// Poller scans the store for due items on a fixed interval and hands them
// to the delivery surface. It keeps a min-heap of pending deliveries keyed
// by absolute due time, rebuilt lazily whenever the store revision moves,
// and fires everything due at or before the current tick. Nothing inside a
// tick may terminate the loop: a dead poller silently stops all future
// reminders.
type Poller struct {
	source   Source
	sink     Sink
	interval time.Duration

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	queue    dueQueue
	builtRev int64
	lastTick time.Time
}

// NewPoller creates a poller over source delivering to sink. A zero or
// negative interval falls back to DefaultInterval.
func NewPoller(source Source, sink Sink, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		sink:     sink,
		interval: interval,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		builtRev: -1,
	}
}

// Run ticks immediately, then on every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.Printf("Poller started, interval %s", p.interval)

	p.Tick()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Poller stopped")
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick runs one due-item scan. Failures are contained per tick and per
// item; a bad entry never halts delivery of subsequent reminders.
func (p *Poller) Tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from poll tick panic: %v", r)
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.rebuildIfStaleLocked()

	now := p.now()
	for {
		e, ok := p.queue.popDue(now)
		if !ok {
			break
		}
		if !p.fire(e, now) {
			// Queue full: the entry stays pending and retries next tick.
			p.queue.push(e)
			break
		}
	}

	// Health signal: the tray surface shows this so a stuck poller is
	// visible instead of silently dropping reminders.
	p.lastTick = now
}

// LastTick reports when the poller last completed a scan. Zero until the
// first tick finishes.
func (p *Poller) LastTick() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTick
}

// rebuildIfStaleLocked reloads the due queue from the store when its
// revision has moved since the last build. Entries already in the past are
// kept; they fire on this tick.
func (p *Poller) rebuildIfStaleLocked() {
	rev := p.source.Revision()
	if rev == p.builtRev {
		return
	}

	loc := p.now().Location()
	q := dueQueue{}

	for _, r := range p.source.ListActive() {
		due, err := r.DueTime(loc)
		if err != nil {
			log.Printf("Skipping unschedulable reminder: %v", err)
			continue
		}
		q.push(&entry{due: due, kind: kindReminder, id: r.ID})
	}

	for _, item := range p.source.ListActiveSnoozed() {
		due, err := item.DueTime(loc)
		if err != nil {
			log.Printf("Skipping unschedulable snoozed item: %v", err)
			continue
		}
		q.push(&entry{due: due, kind: kindSnoozed, id: item.ID})
	}

	p.queue = q
	p.builtRev = rev
}

// fire enqueues the entry's alert, then deactivates the item. The item is
// re-read from the store first: the interactive surface may have edited or
// deleted it since the queue was built, and an entry pushed to the future
// must wait for the rebuild instead of firing now. Returns false only when
// the sink refused the request, so the item stays active and the caller can
// retry the entry on a later tick.
func (p *Poller) fire(e *entry, now time.Time) bool {
	switch e.kind {
	case kindReminder:
		r, ok := p.source.Get(e.id)
		if !ok || !r.Active {
			return true
		}
		if due, err := r.DueTime(now.Location()); err != nil || due.After(now) {
			return true
		}
		if !p.sink.Enqueue(alert.Request{
			ID:         p.newID(),
			ReminderID: r.ID,
			Title:      r.Title,
			Message:    r.Description,
			Priority:   r.Priority,
			VoiceNote:  r.VoiceNote,
		}) {
			return false
		}
		if err := p.source.Deactivate(r.ID); err != nil {
			log.Printf("Failed to deactivate reminder %d: %v", r.ID, err)
		}

	case kindSnoozed:
		item, ok := p.source.GetSnoozed(e.id)
		if !ok || !item.Active {
			return true
		}
		if due, err := item.DueTime(now.Location()); err != nil || due.After(now) {
			return true
		}
		if !p.sink.Enqueue(alert.Request{
			ID:         p.newID(),
			ReminderID: item.ID,
			Title:      item.Title,
			Message:    item.Message,
			Priority:   models.PriorityNormal,
			VoiceNote:  item.CustomVoice,
		}) {
			return false
		}
		if err := p.source.DeactivateSnoozed(item.ID); err != nil {
			log.Printf("Failed to deactivate snoozed item %d: %v", item.ID, err)
		}
	}
	return true
}
