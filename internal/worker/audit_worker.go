// Package worker consumes mutation events and appends them to an
// audit log, one JSON record per line. The log is the append-only
// history of every create, update and delete in the system.
package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"garasi/internal/amqp"
)

// AuditRecord is one line of the audit log.
type AuditRecord struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AuditWorker appends mutation events to a log file.
type AuditWorker struct {
	mu   sync.Mutex
	path string
}

func NewAuditWorker(path string) (*AuditWorker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	return &AuditWorker{path: path}, nil
}

// HandleMutation records one mutation event. Returning an error makes
// the consumer requeue the delivery, so the write must succeed before
// the message is acknowledged.
func (w *AuditWorker) HandleMutation(msg *amqp.MutationMessage) error {
	record := AuditRecord{
		Entity:     msg.Entity,
		Action:     msg.Action,
		ID:         msg.ID,
		OccurredAt: msg.Timestamp,
		RecordedAt: time.Now().UTC(),
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	slog.Info("Audit record written",
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID)
	return nil
}
