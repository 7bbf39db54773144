package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/voyago/voyago/engine/youtube"
	"github.com/voyago/voyago/pkg/natsutil"
)

const (
	// QueueSubject carries asynchronous YouTube ingestion jobs.
	QueueSubject = "voyago.ingest.youtube"
	// DLQSubject receives jobs that exhausted their retries.
	DLQSubject = "voyago.ingest.youtube.dlq"
	// MaxRetries before a job goes to the DLQ.
	MaxRetries = 3
)

// Job is one queued ingestion request.
type Job struct {
	VideoID  string         `json:"video_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// dlqMessage is published to the DLQ on repeated failure.
type dlqMessage struct {
	Job     Job    `json:"job"`
	Error   string `json:"error"`
	Retries int    `json:"retries"`
}

// Enqueue publishes a job to the ingestion queue.
func Enqueue(ctx context.Context, nc *nats.Conn, job Job) error {
	return natsutil.Publish(ctx, nc, QueueSubject, job)
}

// StartConsumer subscribes to QueueSubject and runs jobs through the
// ingestion workflow. Videos without transcripts are acked and dropped;
// transient failures are re-published with an incremented retry count until
// MaxRetries, then sent to the DLQ.
func StartConsumer(nc *nats.Conn, svc *Service, logger *slog.Logger) (*nats.Subscription, error) {
	if logger == nil {
		logger = slog.Default()
	}

	return nc.Subscribe(QueueSubject, func(msg *nats.Msg) {
		var job Job
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			logger.Error("ingest queue: unmarshal failed", "err", err)
			return
		}

		ctx := natsutil.ExtractContext(msg)
		_, err := svc.IngestYouTube(ctx, job.VideoID, job.Metadata)
		if err == nil {
			return
		}
		if errors.Is(err, youtube.ErrNoTranscript) {
			// Soft failure. Retrying will not conjure a transcript.
			logger.Info("ingest queue: no transcript, dropping", "video_id", job.VideoID)
			return
		}

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get("X-Retry-Count"); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}
		retries++
		logger.Error("ingest queue: job failed", "video_id", job.VideoID, "retry", retries, "err", err)

		if retries >= MaxRetries {
			dlq := dlqMessage{Job: job, Error: err.Error(), Retries: retries}
			data, _ := json.Marshal(dlq)
			if err := nc.Publish(DLQSubject, data); err != nil {
				logger.Error("ingest queue: DLQ publish failed", "err", err)
			}
			return
		}

		retryMsg := nats.NewMsg(QueueSubject)
		retryMsg.Data = msg.Data
		retryMsg.Header = nats.Header{}
		retryMsg.Header.Set("X-Retry-Count", fmt.Sprintf("%d", retries))
		if err := nc.PublishMsg(retryMsg); err != nil {
			logger.Error("ingest queue: retry publish failed", "err", err)
		}
	})
}
