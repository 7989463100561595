package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventmind/internal/app"
)

var docPathPattern = regexp.MustCompile(`^events/([^/]+)/docs/.+`)

// UploadEvent is the object-store finalize notification published when an
// upload completes.
type UploadEvent struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// ParseDocPath extracts the owning event ID from a storage path of the
// form events/{eventId}/docs/... Returns false for anything else.
func ParseDocPath(path string) (string, bool) {
	m := docPathPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UploadWorker consumes upload-finalized messages and triggers ingestion
// for document paths with a supported content type.
type UploadWorker struct {
	conn      *amqp.Connection
	ingest    *app.IngestService
	queueName string
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUploadWorker(conn *amqp.Connection, ingest *app.IngestService, queueName string, logger *slog.Logger) *UploadWorker {
	return &UploadWorker{
		conn:      conn,
		ingest:    ingest,
		queueName: queueName,
		logger:    logger,
	}
}

func (w *UploadWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return err
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *UploadWorker) handle(ctx context.Context, d amqp.Delivery) {
	var event UploadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Error("upload worker: decode message failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	eventID, ok := ParseDocPath(event.Path)
	if !ok {
		// Uploads outside events/{id}/docs/ are not knowledge-base
		// material.
		_ = d.Ack(false)
		return
	}

	if event.ContentType != "application/pdf" && !strings.HasPrefix(event.ContentType, "image/") {
		w.logger.Info("upload worker: unsupported content type, skipping",
			"path", event.Path, "content_type", event.ContentType)
		_ = d.Ack(false)
		return
	}

	result, err := w.ingest.Ingest(ctx, app.IngestInput{
		EventID:     eventID,
		StoragePath: event.Path,
		ContentType: event.ContentType,
	})
	if err != nil {
		w.logger.Error("upload worker: ingestion failed",
			"path", event.Path, "error", err)
		_ = d.Nack(false, false)
		return
	}

	w.logger.Info("upload worker: asset ingested",
		"path", event.Path, "chunks", result.Chunks)
	_ = d.Ack(false)
}

func (w *UploadWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
