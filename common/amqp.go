package common

import (
	"fmt"
	"sync"

	"github.com/kataras/golog"
	"github.com/streadway/amqp"
)

// ResultsExchange is the fanout exchange every finished run is published to.
const ResultsExchange = "pi_results"

func declareResultsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		ResultsExchange, // name
		"fanout",        // type
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
}

type AMQPPublisher struct {
	amqpConn *amqp.Connection
	amqpChan *amqp.Channel

	mu sync.Mutex
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	var err error
	publisher := &AMQPPublisher{}

	if publisher.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}

	if publisher.amqpChan, err = publisher.amqpConn.Channel(); err != nil {
		_ = publisher.amqpConn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err = declareResultsExchange(publisher.amqpChan); err != nil {
		_ = publisher.amqpChan.Close()
		_ = publisher.amqpConn.Close()
		return nil, fmt.Errorf("declaring amqp exchange: %w", err)
	}

	return publisher, nil
}

// Publish sends a result to every bound queue. Channels are not safe for
// concurrent use, so publishes are serialized.
func (p *AMQPPublisher) Publish(r Result) error {
	body, err := EncodeResult(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.amqpChan.Publish(
		ResultsExchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/octet-stream",
			Body:        body,
		})
}

func (p *AMQPPublisher) Close() error {
	if err := p.amqpChan.Close(); err != nil {
		return err
	}

	return p.amqpConn.Close()
}

type AMQPConsumer struct {
	amqpConn  *amqp.Connection
	amqpChan  *amqp.Channel
	amqpQueue amqp.Queue

	queueName    string
	consumerName string

	amqpConsumer <-chan amqp.Delivery
	callback     func(Result) error
	logger       *golog.Logger
	wg           sync.WaitGroup
}

// NewAMQPConsumer binds an exclusive queue to the results exchange. callback
// runs on a single goroutine, in delivery order.
func NewAMQPConsumer(url, queueName, consumerName string, logger *golog.Logger, callback func(Result) error) (*AMQPConsumer, error) {
	var err error
	consumer := AMQPConsumer{
		callback: callback,
		logger:   logger,

		queueName:    queueName,
		consumerName: consumerName,
	}

	if consumer.amqpConn, err = amqp.Dial(url); err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}

	if consumer.amqpChan, err = consumer.amqpConn.Channel(); err != nil {
		_ = consumer.amqpConn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err = declareResultsExchange(consumer.amqpChan); err != nil {
		_ = consumer.Close()
		return nil, fmt.Errorf("declaring amqp exchange: %w", err)
	}

	if consumer.amqpQueue, err = consumer.amqpChan.QueueDeclare(
		queueName, // name
		false,     // durable
		false,     // delete when unused
		true,      // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		_ = consumer.Close()
		return nil, fmt.Errorf("declaring amqp queue: %w", err)
	}

	if err = consumer.amqpChan.QueueBind(
		consumer.amqpQueue.Name, // queue name
		"",                      // routing key
		ResultsExchange,         // exchange
		false,
		nil,
	); err != nil {
		_ = consumer.Close()
		return nil, fmt.Errorf("binding amqp queue: %w", err)
	}

	return &consumer, nil
}

func (c *AMQPConsumer) Start() error {
	var err error

	if c.amqpConsumer, err = c.amqpChan.Consume(
		c.amqpQueue.Name, // queue
		c.consumerName,   // consumer
		true,             // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // args
	); err != nil {
		return err
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		for delivery := range c.amqpConsumer {
			c.handle(delivery)
		}
	}()

	return nil
}

func (c *AMQPConsumer) handle(delivery amqp.Delivery) {
	result, err := ParseAMQPResult(&delivery)
	if err != nil {
		c.logger.Errorf("%s: %s", c.consumerName, err)
		return
	}

	if err = c.callback(result); err != nil {
		c.logger.Errorf("%s: handling result for seed %d: %s", c.consumerName, result.Seed, err)
	}
}

func (c *AMQPConsumer) Stop() error {
	return c.amqpChan.Cancel(c.consumerName, false)
}

func (c *AMQPConsumer) Wait() {
	c.wg.Wait()
}

func (c *AMQPConsumer) Close() error {
	if err := c.amqpChan.Close(); err != nil {
		return err
	}

	return c.amqpConn.Close()
}

func ParseAMQPResult(delivery *amqp.Delivery) (Result, error) {
	return DecodeResult(delivery.Body)
}
