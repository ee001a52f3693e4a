package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/streadway/amqp"

	"placement-ats/internal/queue"
	"placement-ats/internal/shared/config"
	"placement-ats/internal/shared/metrics"
	"placement-ats/internal/shared/telemetry"
	"placement-ats/internal/workerproc"
)

type deliveryAcker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func runAMQP(ctx context.Context, cfg config.Config, s settings, processor workerproc.Processor) error {
	url := strings.TrimSpace(cfg.RabbitMQURL)
	if url == "" {
		return errors.New("RABBITMQ_URL is required")
	}
	queueName := strings.TrimSpace(cfg.RabbitMQQueue)
	if queueName == "" {
		queueName = queue.DefaultAMQPQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := queue.DeclareQueue(ch, queueName); err != nil {
		return err
	}
	if err := ch.Qos(s.concurrency, 0, false); err != nil {
		return fmt.Errorf("set rabbitmq qos: %w", err)
	}

	deliveries, err := ch.Consume(
		queueName, // queue name
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("consume rabbitmq queue: %w", err)
	}

	telemetry.Info("worker.started", map[string]any{
		"backend":     queue.BackendAMQP,
		"queue":       queueName,
		"concurrency": s.concurrency,
	})
	consumeAMQP(ctx, deliveries, s, processor)
	return nil
}

func consumeAMQP(ctx context.Context, deliveries <-chan amqp.Delivery, s settings, processor workerproc.Processor) {
	sem := make(chan struct{}, max(1, s.concurrency))
	var wg sync.WaitGroup

consumeLoop:
	for {
		select {
		case <-ctx.Done():
			break consumeLoop
		case d, ok := <-deliveries:
			if !ok {
				telemetry.Warn("worker.deliveries_closed", nil)
				break consumeLoop
			}
			select {
			case <-ctx.Done():
				_ = d.Nack(false, true)
				break consumeLoop
			case sem <- struct{}{}:
			}
			metrics.IncWorkerJobsReceived()
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handleDelivery(ctx, processor, d, d)
			}(d)
		}
	}

	drain(&wg, s.shutdownTimeout)
}

// handleDelivery settles one delivery. A failed message is requeued once;
// a second failure is rejected so it reaches the dead-letter exchange if one is bound.
func handleDelivery(ctx context.Context, processor workerproc.Processor, d amqp.Delivery, acker deliveryAcker) {
	fields := map[string]any{
		"amqp_message_id":   d.MessageId,
		"amqp_delivery_tag": d.DeliveryTag,
		"redelivered":       d.Redelivered,
	}

	var err error
	switch dispatch(ctx, processor, string(d.Body), fields) {
	case dispositionAck:
		err = acker.Ack(false)
	case dispositionDrop:
		if err = acker.Nack(false, false); err == nil {
			metrics.IncWorkerJobsDeletedUnrecoverable()
		}
	case dispositionRetry:
		err = acker.Nack(false, !d.Redelivered)
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.evaluation.settle_failed", fields)
	}
}
