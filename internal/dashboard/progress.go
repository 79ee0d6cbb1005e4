package dashboard

import "sync"

// ProgressHub fans pipeline progress events out to WebSocket subscribers,
// keyed by dashboard ID. Publishing never blocks: slow subscribers drop
// events rather than stall the pipeline.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan ProgressEvent]struct{}
}

// NewProgressHub creates an empty hub
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		subs: make(map[string]map[chan ProgressEvent]struct{}),
	}
}

// Subscribe registers a listener for a dashboard's events. The returned
// cancel function must be called when the listener goes away.
func (h *ProgressHub) Subscribe(dashboardID string) (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 32)

	h.mu.Lock()
	if h.subs[dashboardID] == nil {
		h.subs[dashboardID] = make(map[chan ProgressEvent]struct{})
	}
	h.subs[dashboardID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[dashboardID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, dashboardID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of a dashboard
func (h *ProgressHub) Publish(dashboardID string, ev ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[dashboardID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Finish signals run completion to subscribers with a synthetic event
func (h *ProgressHub) Finish(dashboardID, status string) {
	h.Publish(dashboardID, ProgressEvent{
		Step:   "run",
		Status: status,
	})
}
