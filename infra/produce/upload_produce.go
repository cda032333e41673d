package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	UploadExchange = "upload.exchange"

	// UploadCompletedQueue carries one message per finished upload (merged or
	// single-shot); the consumer persists the audit row and drops caches.
	UploadCompletedQueue      = "upload.completed"
	UploadCompletedRoutingKey = "upload.completed"
)

// Upload sources reported in UploadCompletedMessage.
const (
	SourceDirect  = "direct"
	SourceChunked = "chunked"
)

// UploadCompletedMessage is published after a ledger row has been written.
type UploadCompletedMessage struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	FilePath  string `json:"file_path"`
	Source    string `json:"source"` // "direct" or "chunked"
	Timestamp int64  `json:"timestamp"`
}

// UploadProduceService publishes upload lifecycle messages.
type UploadProduceService struct {
	channel *amqp.Channel
}

func InitUploadProduceService(channel *amqp.Channel) *UploadProduceService {
	err := channel.ExchangeDeclare(
		UploadExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare upload exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		UploadCompletedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare UploadCompleted queue: " + err.Error())
	}

	err = channel.QueueBind(
		UploadCompletedQueue,
		UploadCompletedRoutingKey,
		UploadExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind UploadCompleted queue: " + err.Error())
	}

	return &UploadProduceService{channel: channel}
}

// PublishUploadCompleted publishes a persistent upload.completed message.
func (s *UploadProduceService) PublishUploadCompleted(ctx context.Context, msg UploadCompletedMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		UploadExchange,
		UploadCompletedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
