package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-shrink/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) PublishResult(ctx context.Context, event models.ResultEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if event.PublishedAt.IsZero() {
		event.PublishedAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal result event: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.PublishedAt,
			MessageId:    event.RunID + ":" + event.Result.FileID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish result event: %w", err)
	}

	q.logger.Debug("Result event published",
		zap.String("run_id", event.RunID),
		zap.String("file_id", event.Result.FileID),
		zap.String("status", event.Result.Status))
	return nil
}
