package generation

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/focusroom/internal/content"
)

// CallEvent records metadata about a single generation service call.
type CallEvent struct {
	ItemID    string
	Kind      content.Kind
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about generation calls for logging and metrics.
// Fallback synthesis in the resolution pipeline also reports here, so
// operators retain a diagnostic trail for failures the user never sees.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes generation call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] gen_call item=%s kind=%s latency_ms=%d status=%s\n",
		ts, event.ItemID, event.Kind, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
