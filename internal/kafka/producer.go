package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer queues messages on an inbox and writes them from one goroutine so
// request handlers never block on the broker.
type Producer struct {
	w       *kafka.Writer
	log     *zap.Logger
	inbox   chan kafka.Message
	quit    chan struct{}
	closeCh chan struct{}
	once    sync.Once
}

func NewProducer(brokers []string, topic string, buf int, log *zap.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		log:     log.With(zap.String("topic", topic)),
		inbox:   make(chan kafka.Message, buf),
		quit:    make(chan struct{}),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		defer func() {
			if err := p.w.Close(); err != nil {
				p.log.Warn("close kafka writer", zap.Error(err))
			}
		}()
		for {
			select {
			case m := <-p.inbox:
				p.write(m)
			case <-ctx.Done():
				p.drain()
				return
			case <-p.quit:
				p.drain()
				return
			}
		}
	}()
}

// drain flushes whatever is still buffered.
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.log.Error("kafka publish failed", zap.ByteString("key", m.Key), zap.Error(err))
	}
}

// Publish enqueues a message. After Close it drops the message.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	// checked on its own: select picks randomly when both cases are ready
	select {
	case <-p.quit:
		p.log.Warn("producer closed, dropping message", zap.ByteString("key", key))
		return
	default:
	}
	select {
	case <-p.quit:
		p.log.Warn("producer closed, dropping message", zap.ByteString("key", key))
	case p.inbox <- m:
	}
}

// Close stops accepting messages; the loop flushes the buffer and exits.
func (p *Producer) Close() { p.once.Do(func() { close(p.quit) }) }

// WaitClosed blocks until the loop has flushed and closed the writer.
func (p *Producer) WaitClosed() { <-p.closeCh }
