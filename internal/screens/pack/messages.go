package pack

import "time"

// tickMsg is one clock tick from the subscription with ID subID.
type tickMsg struct {
	subID uint64
	at    time.Time
}
