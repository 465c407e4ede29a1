package notification

import (
	"context"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
)

// Event identifies what happened to the alerts being announced
type Event string

const (
	EventAlertCreated      Event = "alert.created"
	EventAlertClosed       Event = "alert.closed"
	EventAlertAcknowledged Event = "alert.acknowledged"
	EventAlertBulk         Event = "alert.bulk"
)

// Dispatcher delivers alert notifications to an external transport.
// Callers treat delivery as best-effort: a returned error is logged,
// never propagated into the alert state machine.
type Dispatcher interface {
	Notify(ctx context.Context, event Event, alerts []*alert.Alert) error
}
