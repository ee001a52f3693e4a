package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"placement-ats/internal/shared/metrics"
	"placement-ats/internal/shared/telemetry"
	"placement-ats/internal/workerproc"
)

// disposition tells the transport what to do with a delivery.
type disposition int

const (
	// dispositionAck removes a processed message.
	dispositionAck disposition = iota
	// dispositionDrop removes a message that can never succeed.
	dispositionDrop
	// dispositionRetry leaves the message for redelivery.
	dispositionRetry
)

// dispatch parses and processes one message body. fields carries
// transport identifiers and is extended with evaluation details.
func dispatch(ctx context.Context, processor workerproc.Processor, body string, fields map[string]any) disposition {
	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		var missing workerproc.ErrMissingEvaluationID
		var empty workerproc.ErrEmptyBody
		switch {
		case errors.As(err, &empty):
			telemetry.Error("worker.evaluation.empty_body", fields)
		case errors.As(err, &missing):
			if missing.RequestID != "" {
				fields["request_id"] = missing.RequestID
			}
			telemetry.Error("worker.evaluation.missing_id", fields)
		default:
			fields["error"] = err.Error()
			telemetry.Error("worker.evaluation.decode_failed", fields)
		}
		return dispositionDrop
	}

	fields["evaluation_id"] = decoded.EvaluationID
	if decoded.RequestID != "" {
		fields["request_id"] = decoded.RequestID
	}
	telemetry.Info("worker.evaluation.received", fields)

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctxWithParsed, processor, body); err != nil {
		fields["error"] = err.Error()
		metrics.IncWorkerJobsFailed()
		if workerproc.Unrecoverable(err) {
			telemetry.Error("worker.evaluation.unrecoverable", fields)
			return dispositionDrop
		}
		telemetry.Error("worker.evaluation.failed", fields)
		return dispositionRetry
	}

	telemetry.Info("worker.evaluation.completed", fields)
	metrics.IncWorkerJobsCompleted()
	return dispositionAck
}

// drain waits for in-flight jobs up to timeout.
func drain(wg *sync.WaitGroup, timeout time.Duration) {
	telemetry.Info("worker.shutdown", map[string]any{"timeout": timeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(timeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout": timeout.String()})
	}
}
