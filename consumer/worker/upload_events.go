package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-upload-service/entity"
	"github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/infra/produce"
	"github.com/tnqbao/gau-upload-service/repository"
	"gorm.io/datatypes"
)

type UploadEventsConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewUploadEventsConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *UploadEventsConsumer {
	return &UploadEventsConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

// Start consumes upload.completed messages: each one becomes an audit row,
// and the uploader's cached listing is dropped so every replica serves the
// new upload on the next read.
func (c *UploadEventsConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.UploadCompletedQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register upload.completed consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Upload Events] Started listening on queue: %s", produce.UploadCompletedQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Upload Events] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Upload Events] Channel closed")
					return
				}
				c.handleUploadCompleted(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *UploadEventsConsumer) handleUploadCompleted(ctx context.Context, msg amqp.Delivery) {
	var payload produce.UploadCompletedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Upload Events] Failed to unmarshal upload.completed message")
		_ = msg.Nack(false, false)
		return
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Upload Events] Invalid user ID in message")
		_ = msg.Nack(false, false)
		return
	}

	event := &entity.UploadEvent{
		ID:      uuid.New(),
		UserID:  userID,
		Source:  payload.Source,
		Payload: datatypes.JSON(msg.Body),
	}
	if err := c.repository.UploadEventRepo.Create(event); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Upload Events] Failed to save upload event")
		_ = msg.Nack(false, true)
		return
	}

	if c.infra.Redis != nil {
		if err := c.infra.Redis.Delete(ctx, infra.MyUploadsKey(payload.UserID)); err != nil {
			c.infra.Logger.WarningWithContextf(ctx, "[Upload Events] Failed to drop uploads cache for %s: %v", payload.UserID, err)
		}
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Upload Events] Recorded %s upload %s for user %s",
		payload.Source, payload.Filename, payload.UserID)

	_ = msg.Ack(false)
}
