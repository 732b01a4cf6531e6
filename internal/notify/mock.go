package notify

import (
	"context"
	"sync"
)

// SentReport is one delivery captured by the Recorder.
type SentReport struct {
	RecipientID string
	Report      string
}

// Recorder is a Notifier that remembers everything it was asked to send.
// Tests use it in place of the Slack transport.
type Recorder struct {
	mu   sync.Mutex
	sent []SentReport

	// FailFor makes deliveries to these recipients return an error.
	FailFor map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{FailFor: make(map[string]error)}
}

func (r *Recorder) SendReport(_ context.Context, recipientID, report string) error {
	if err, ok := r.FailFor[recipientID]; ok {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, SentReport{RecipientID: recipientID, Report: report})
	return nil
}

// Sent returns a copy of every captured delivery, in order.
func (r *Recorder) Sent() []SentReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentReport(nil), r.sent...)
}
