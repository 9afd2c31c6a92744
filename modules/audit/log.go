package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Entry is one JSONL audit record.
type Entry struct {
	Time      time.Time      `json:"time"`
	Hook      string         `json:"hook"`
	RequestID string         `json:"request_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// logWriter serialises entries to an io.Writer, one JSON object per line.
type logWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *logWriter) write(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return json.NewEncoder(w.out).Encode(e)
}
