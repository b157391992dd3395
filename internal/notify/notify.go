package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	EventRoundStart = "round_start"
	EventRoundEnd   = "round_end"
)

// Event - обертка события раунда для канала game_updates
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Publisher - best-effort рассылка событий раундов подписчикам.
// Ошибки публикации логируются вызывающим и никогда не доходят до игрока.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	raw, err := json.Marshal(Event{
		Type:    eventType,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

// NoopPublisher - заглушка, когда redis не сконфигурирован
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return nil
}

// Connect - подключение к redis с проверкой ping
func Connect(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
