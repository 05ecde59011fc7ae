package guardkit

import "context"

// Notification describes a governed mutation that committed, for fan-out to
// interested subscribers (websocket hubs, webhooks, search indexers).
type Notification struct {
	Action          Action
	ResourceType    ResourceType
	ResourceID      string
	ActorID         string
	AffectedUserIDs []string
}

// Notifier receives notifications after a governed request commits. Delivery
// is best effort; a slow or failing notifier must not block request handling,
// so implementations should hand off to their own queue.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls fn(ctx, n).
func (fn NotifierFunc) Notify(ctx context.Context, n Notification) {
	fn(ctx, n)
}

// NopNotifier discards all notifications.
var NopNotifier Notifier = NotifierFunc(func(context.Context, Notification) {})
