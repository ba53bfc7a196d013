package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/ovchar/miniapp-bet-client/internal/shared/kafka"
	"github.com/ovchar/miniapp-bet-client/pkg/contracts/events"
)

// KafkaPublisher emite os eventos de aposta do simulador. A publicação
// é best-effort: falha no broker não derruba a resposta HTTP.
type KafkaPublisher struct {
	Placed  *kafka.Writer
	Settled *kafka.Writer
}

func NewKafkaPublisher(placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Placed: placed, Settled: settled}
}

func (p *KafkaPublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	// Chave por usuário pra manter a ordem das apostas dele na partição.
	return skafka.WriteJSON(ctx, p.Placed, strconv.FormatInt(e.UserID, 10), b)
}

func (p *KafkaPublisher) PublishWagerSettled(ctx context.Context, e events.WagerSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Settled, strconv.FormatInt(e.UserID, 10), b)
}

// NoopPublisher é usado quando não há broker configurado (dev sem Kafka).
type NoopPublisher struct{}

func (NoopPublisher) PublishWagerPlaced(context.Context, events.WagerPlaced) error   { return nil }
func (NoopPublisher) PublishWagerSettled(context.Context, events.WagerSettled) error { return nil }
