package worker

import (
	"text2phenotype.com/postag/rmq"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const senderName = "postag"

type rmqTransactions interface {
	notifyResults(task *Task, message Message) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger)
	getDeliveriesCh() <-chan amqp.Delivery
	getConsumerErrorsCh() <-chan *amqp.Error
	getPublisherErrorsCh() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) getConsumerErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.ConsumerErrors
}

func (wrapper *rmqClientWrapper) getPublisherErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.PublisherErrors
}

func (wrapper *rmqClientWrapper) notifyResults(task *Task, message Message) error {
	message.Sender = senderName
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.SendResult(
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   task.delivery.MessageId,
			Body:        b,
		},
	)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// rejectDelivery requeues a delivery once; a redelivered message is dropped.
func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger) {
	requeue := !delivery.Redelivered
	if requeue {
		taskLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	} else {
		taskLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
	}
	if err := delivery.Reject(requeue); err != nil {
		taskLogger.Err(err).Bool("requeue", requeue).Msg("Failed to reject delivery")
	}
}
