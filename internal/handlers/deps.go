package handlers

import "github.com/pimpraxis/therapy-scheduler/internal/audit"

// Auditor records who did what. Satisfied by audit.Dispatcher.
type Auditor interface {
	Dispatch(ev audit.Event)
}
