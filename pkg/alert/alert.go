// Package alert defines the contract between the scheduler poller and the
// delivery surface. The poller enqueues requests and keeps ticking; the
// surface drains the queue, presents each alert and resolves exactly one
// user decision per request.
package alert

import (
	"log"

	"github.com/ebenmoss/deskminder/pkg/models"
)

// SnoozeChoices are the snooze durations, in minutes, a delivery surface
// must offer.
var SnoozeChoices = []int{5, 10, 15, 30}

// Request describes one due item handed to the delivery surface.
type Request struct {
	ID         string // unique per dispatch
	ReminderID int64  // id of the reminder or snoozed item that fired
	Title      string
	Message    string
	Priority   models.Priority
	VoiceNote  string // optional path to a recorded note to play
}

// Decision is the user's response to an alert.
type Decision struct {
	Snoozed       bool
	SnoozeMinutes int // one of SnoozeChoices when Snoozed
}

// Dismiss is the decision for a plain acknowledgement.
func Dismiss() Decision {
	return Decision{}
}

// Snooze is the decision deferring the alert by minutes.
func Snooze(minutes int) Decision {
	return Decision{Snoozed: true, SnoozeMinutes: minutes}
}

// Queue is the buffered handoff between the poller and the surface. Enqueue
// never blocks: the poll loop must keep checking other due items even while
// the user stares at a modal alert.
type Queue struct {
	requests chan Request
}

// NewQueue creates a queue holding up to size undelivered requests.
func NewQueue(size int) *Queue {
	return &Queue{requests: make(chan Request, size)}
}

// Enqueue hands a request to the surface. If the queue is full the request
// is dropped and logged rather than stalling the poller.
func (q *Queue) Enqueue(req Request) bool {
	select {
	case q.requests <- req:
		return true
	default:
		log.Printf("Alert queue full, dropping alert for %q (id %d)", req.Title, req.ReminderID)
		return false
	}
}

// Requests is the surface's read side.
func (q *Queue) Requests() <-chan Request {
	return q.requests
}
