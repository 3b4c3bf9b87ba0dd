package tui

// ProgressObserver turns catalog load progress into a channel Bubble Tea can listen on.
type ProgressObserver struct {
	ch chan LoadProgressMsg
}

// NewProgressObserver creates an observer with a small buffer.
func NewProgressObserver() *ProgressObserver {
	return &ProgressObserver{ch: make(chan LoadProgressMsg, 16)}
}

// OnProgress matches domain.ProgressFunc. It drops updates when the UI is behind.
func (o *ProgressObserver) OnProgress(loaded, total int) {
	select {
	case o.ch <- LoadProgressMsg{Loaded: loaded, Total: total}:
	default:
	}
}

// Events is read by ListenProgressCmd
func (o *ProgressObserver) Events() <-chan LoadProgressMsg {
	return o.ch
}
