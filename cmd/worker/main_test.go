package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/streadway/amqp"

	"placement-ats/internal/evaluations"
	"placement-ats/internal/queue"
	"placement-ats/internal/shared/telemetry"
)

type fakeSQS struct {
	mu       sync.Mutex
	deleted  []string
	batches  [][]sqstypes.Message
	received int
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.received < len(f.batches) {
		batch := f.batches[f.received]
		f.received++
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	return nil, context.Canceled
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

type fakeProcessor struct {
	err error

	mu  sync.Mutex
	ids []string
}

func (f *fakeProcessor) ProcessEvaluation(ctx context.Context, evaluationID string) error {
	f.mu.Lock()
	f.ids = append(f.ids, evaluationID)
	f.mu.Unlock()
	return f.err
}

func quietLogs(t *testing.T) {
	t.Helper()
	restore := telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(restore)
}

func sqsMessage(id, body string) sqstypes.Message {
	return sqstypes.Message{
		MessageId:     aws.String("m-" + id),
		ReceiptHandle: aws.String("r-" + id),
		Body:          aws.String(body),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func encoded(t *testing.T, evaluationID string) string {
	t.Helper()
	body, err := queue.EncodeMessage(queue.Message{EvaluationID: evaluationID, RequestID: "req-" + evaluationID, Version: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	quietLogs(t)
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	handleMessage(context.Background(), client, "queue", proc, sqsMessage("1", encoded(t, "eval-1")))

	if len(client.deleted) != 1 || client.deleted[0] != "r-1" {
		t.Fatalf("expected delete of r-1, got %v", client.deleted)
	}
	if len(proc.ids) != 1 || proc.ids[0] != "eval-1" {
		t.Fatalf("expected eval-1 processed, got %v", proc.ids)
	}
}

func TestWorkerDoesNotDeleteOnTransientFailure(t *testing.T) {
	quietLogs(t)
	client := &fakeSQS{}
	proc := &fakeProcessor{err: errors.New("db timeout")}

	handleMessage(context.Background(), client, "queue", proc, sqsMessage("2", encoded(t, "eval-2")))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnUnrecoverableFailure(t *testing.T) {
	quietLogs(t)
	client := &fakeSQS{}
	proc := &fakeProcessor{err: fmt.Errorf("load evaluation: %w", evaluations.ErrNotFound)}

	handleMessage(context.Background(), client, "queue", proc, sqsMessage("3", encoded(t, "eval-3")))

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnBadPayloads(t *testing.T) {
	quietLogs(t)
	for name, body := range map[string]string{
		"invalid json": "{bad-json",
		"empty body":   "  ",
		"missing id":   `{"requestId":"req-9"}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := &fakeSQS{}
			proc := &fakeProcessor{}
			handleMessage(context.Background(), client, "queue", proc, sqsMessage("x", body))
			if len(client.deleted) != 1 {
				t.Fatalf("expected delete, got %d", len(client.deleted))
			}
			if len(proc.ids) != 0 {
				t.Fatalf("processor must not run")
			}
		})
	}
}

func TestWorkerSkipsDeleteWithoutReceipt(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	client := &fakeSQS{}
	msg := sqsMessage("4", encoded(t, "eval-4"))
	msg.ReceiptHandle = nil
	handleMessage(context.Background(), client, "queue", &fakeProcessor{}, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete call")
	}
	if !strings.Contains(buf.String(), "worker.evaluation.delete_failed") {
		t.Fatalf("expected delete_failed log, got %s", buf.String())
	}
}

func TestPollSQSProcessesBatchesUntilCanceled(t *testing.T) {
	quietLogs(t)
	client := &fakeSQS{batches: [][]sqstypes.Message{
		{sqsMessage("a", encoded(t, "eval-a")), sqsMessage("b", encoded(t, "eval-b"))},
		{sqsMessage("c", encoded(t, "eval-c"))},
	}}
	proc := &fakeProcessor{}

	pollSQS(context.Background(), client, "queue", settings{concurrency: 2, shutdownTimeout: time.Second}, proc)

	if got := client.deletedCount(); got != 3 {
		t.Fatalf("expected 3 deletes, got %d", got)
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

type fakeAcker struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcker) Ack(multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcker) Nack(multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestHandleDeliverySettlement(t *testing.T) {
	quietLogs(t)
	tests := []struct {
		name        string
		body        string
		procErr     error
		redelivered bool
		wantAck     bool
		wantRequeue bool
	}{
		{name: "success acks", body: encoded(t, "eval-1"), wantAck: true},
		{name: "bad payload rejected", body: "{bad"},
		{name: "transient failure requeued once", body: encoded(t, "eval-2"), procErr: errors.New("db timeout"), wantRequeue: true},
		{name: "second failure rejected", body: encoded(t, "eval-3"), procErr: errors.New("db timeout"), redelivered: true},
		{name: "missing evaluation rejected", body: encoded(t, "eval-4"), procErr: evaluations.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acker := &fakeAcker{}
			d := amqp.Delivery{Body: []byte(tt.body), Redelivered: tt.redelivered, MessageId: "m"}
			handleDelivery(context.Background(), &fakeProcessor{err: tt.procErr}, d, acker)

			if acker.acked != tt.wantAck {
				t.Fatalf("acked=%v want %v", acker.acked, tt.wantAck)
			}
			if !tt.wantAck && !acker.nacked {
				t.Fatalf("expected nack")
			}
			if acker.requeue != tt.wantRequeue {
				t.Fatalf("requeue=%v want %v", acker.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestConsumeAMQPStopsWhenChannelCloses(t *testing.T) {
	quietLogs(t)
	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	done := make(chan struct{})
	go func() {
		consumeAMQP(context.Background(), deliveries, settings{concurrency: 1, shutdownTimeout: time.Second}, &fakeProcessor{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("WORKER_TEST_INT", "7")
	if got := envInt("WORKER_TEST_INT", 1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	t.Setenv("WORKER_TEST_INT", "x")
	if got := envInt("WORKER_TEST_INT", 1); got != 1 {
		t.Fatalf("expected default, got %d", got)
	}
}
