package rmq

import (
	"text2phenotype.com/postag/logger"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type Config struct {
	Host                    string `envconfig:"POSTAG_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"POSTAG_RMQ_PORT" required:"true"`
	Username                string `envconfig:"POSTAG_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"POSTAG_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"POSTAG_RMQ_EXCHANGE" default:"postag-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"POSTAG_MQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"POSTAG_TASK_QUEUE" required:"true"`
	ResultsQueue            string `envconfig:"POSTAG_RESULTS_QUEUE" required:"true"`
}

// Client owns two connections: jobs are consumed on one, results are
// published on the other so a slow consumer never blocks publishing.
type Client struct {
	Deliveries       <-chan amqp.Delivery
	ConsumerErrors   <-chan *amqp.Error
	PublisherErrors  <-chan *amqp.Error
	config           Config
	consumerConn     *amqp.Connection
	publisherConn    *amqp.Connection
	publisherChannel *amqp.Channel
	rmqLogger        zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := config.URL()
	publisherConn, publisherChannel, err := dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	consumerConn, consumerChannel, err := dial(url)
	if err != nil {
		_ = publisherConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	deliveries, err := consume(consumerChannel, config)
	if err != nil {
		_ = publisherConn.Close()
		_ = consumerConn.Close()
		return nil, err
	}
	rmqLogger.Info().Str("queue", config.TaskQueue).Int("prefetch", config.MaxParallelRequestCount).Msg("Consuming tasks")

	return &Client{
		Deliveries:       deliveries,
		ConsumerErrors:   consumerChannel.NotifyClose(make(chan *amqp.Error)),
		PublisherErrors:  publisherChannel.NotifyClose(make(chan *amqp.Error)),
		config:           config,
		consumerConn:     consumerConn,
		publisherConn:    publisherConn,
		publisherChannel: publisherChannel,
		rmqLogger:        rmqLogger,
	}, nil
}

// SendResult publishes a completion message to the results queue.
func (c *Client) SendResult(msg amqp.Publishing) error {
	return c.publisherChannel.Publish(
		c.config.Exchange,
		c.config.ResultsQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	if err := c.consumerConn.Close(); err != nil {
		c.rmqLogger.Warn().Err(err).Msg("Closing consumer connection")
	}
	if err := c.publisherConn.Close(); err != nil {
		c.rmqLogger.Warn().Err(err).Msg("Closing publisher connection")
	}
}

func (config Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func consume(ch *amqp.Channel, config Config) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclarePassive(
		config.TaskQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", config.TaskQueue, err)
	}
	if err := ch.QueueBind(q.Name, q.Name, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", q.Name, err)
	}
	if err := ch.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	return deliveries, nil
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
