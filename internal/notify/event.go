// Package notify receives desktop notifications and hands them to the
// render loop. It owns a minimal org.freedesktop.Notifications server on the
// session bus and a single-slot relay with latest-wins semantics.
package notify

import "time"

// Event is one received notification, ready to be displayed.
type Event struct {
	// ID is the identifier the server assigned to the notification.
	ID uint32
	// AppName is the sending application's name, possibly empty.
	AppName string
	// Summary is the single-line notification title.
	Summary string
	// Body is the optional notification body. It is not displayed.
	Body string
	// Timeout is how long the notification should stay on screen.
	Timeout time.Duration
}
