package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	FileService *FileProduceService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	fileService := InitFileProduceService(channel)
	if fileService == nil {
		panic("Failed to initialize File produce service")
	}

	produceInstance = &Produce{
		FileService: fileService,
	}

	return produceInstance
}
