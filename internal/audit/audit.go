package audit

import (
	"context"
	"log"
	"time"

	"github.com/pimpraxis/therapy-scheduler/internal/models"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
}

// Dispatcher persists workflow events off the request path. The queue is
// bounded; a full queue drops events rather than blocking the API.
type Dispatcher struct {
	store *store.Store
	queue chan Event
}

func NewDispatcher(s *store.Store) *Dispatcher {
	d := &Dispatcher{
		store: s,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		now := time.Now().UTC()
		item := models.AuditEvent{
			PK:         "AUDIT#" + ev.EntityID,
			SK:         "EVENT#" + now.Format(time.RFC3339Nano),
			Type:       models.TypeAuditEvent,
			Action:     ev.Action,
			Entity:     ev.Entity,
			EntityID:   ev.EntityID,
			ActorID:    ev.ActorID,
			OccurredAt: now.Format(time.RFC3339),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Create(ctx, item); err != nil {
			log.Println("audit error:", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Println("audit queue full, dropping event")
	}
}
