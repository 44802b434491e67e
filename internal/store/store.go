package store

import "github.com/jpalmerr/electionboard/internal/present"

// Store defines the interface for publishing and subscribing to dashboard views.
//
// Store implementations must be safe for concurrent access. The pub/sub
// mechanism pushes each rendered view to connected clients (e.g., via
// Server-Sent Events). Store satisfies [present.Sink].
type Store interface {
	// Publish replaces the current view and notifies all subscribers.
	// Publish must not block.
	Publish(view present.View)

	// Latest returns the current view. ok is false until the first Publish.
	Latest() (view present.View, ok bool)

	// Subscribe returns a channel that receives every published view.
	// The returned channel has a buffer; slow consumers may miss views.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan present.View

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan present.View)
}
