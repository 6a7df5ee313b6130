package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-wiki-gateway/entity"
)

const (
	FileExchange = "file.exchange"

	// FileUploadedQueue feeds the document parser with freshly assembled files.
	FileUploadedQueue      = "file.uploaded"
	FileUploadedRoutingKey = "file.uploaded"

	// FileParseResultQueue carries parser verdicts back to this service.
	FileParseResultQueue      = "file.parse_result"
	FileParseResultRoutingKey = "file.parse_result"
)

// Publisher is the subset of *amqp.Channel used for publishing.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type FileProduceService struct {
	channel Publisher
}

func InitFileProduceService(channel *amqp.Channel) *FileProduceService {
	if err := DeclareFileTopology(channel); err != nil {
		panic("Failed to declare File topology: " + err.Error())
	}
	return &FileProduceService{channel: channel}
}

func NewFileProduceService(channel Publisher) *FileProduceService {
	return &FileProduceService{channel: channel}
}

func DeclareFileTopology(channel *amqp.Channel) error {
	if err := channel.ExchangeDeclare(
		FileExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return err
	}

	bindings := map[string]string{
		FileUploadedQueue:    FileUploadedRoutingKey,
		FileParseResultQueue: FileParseResultRoutingKey,
	}
	for queue, routingKey := range bindings {
		if _, err := channel.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return err
		}
		if err := channel.QueueBind(queue, routingKey, FileExchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// PublishFileUploaded announces an assembled file to downstream processors.
func (s *FileProduceService) PublishFileUploaded(ctx context.Context, event entity.FileUploadedEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		FileExchange,
		FileUploadedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
