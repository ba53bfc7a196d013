package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

const eventsKey = "miniapp:events:open"

// EventsCache guarda o catálogo de eventos serializado no Redis por um
// TTL curto, poupando o banco nas visitas repetidas.
type EventsCache struct{ R *redis.Client }

func New(r *redis.Client) *EventsCache { return &EventsCache{R: r} }

func (c *EventsCache) Get(ctx context.Context) ([]capi.Event, bool, error) {
	b, err := c.R.Get(ctx, eventsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []capi.Event
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *EventsCache) Set(ctx context.Context, events []capi.Event, ttl time.Duration) error {
	b, _ := json.Marshal(events)
	return c.R.Set(ctx, eventsKey, b, ttl).Err()
}
