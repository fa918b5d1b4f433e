// Package notify implements channel-scoped toast notifications. Each channel
// holds at most one active notification (last write wins), and replacing a
// channel's content cancels the pending dismissal of whatever it replaced.
package notify

import "time"

// DefaultAnimationDuration pads every dismissal timer so an entry stays
// mounted through its exit transition after it logically expires. Render
// collaborators must size their exit animation to the same value the store
// uses, or entries are torn down mid-transition.
const DefaultAnimationDuration = 500 * time.Millisecond

// Channel names an independent notification stream, e.g. "errors" or
// "confirmations". Channels are not pre-declared; applications define their
// own constants to catch typos at compile time.
type Channel string

// Notification is a styled message scheduled for display and automatic
// dismissal. TextColor and BackgroundColor are presentation hints the core
// never interprets. A notification is immutable once set; a channel's
// content changes only by wholesale replacement.
type Notification struct {
	Message         string
	TextColor       string
	BackgroundColor string
	Timeout         time.Duration
	IsError         bool // renderers suppress the success icon
}

// normalized repairs malformed input rather than rejecting it: callers are
// first-party application code, and a negative timeout means "dismiss as
// soon as the animation allows".
func (n Notification) normalized() Notification {
	if n.Timeout < 0 {
		n.Timeout = 0
	}
	return n
}
