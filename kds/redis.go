package kds

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yeremiapane/tableorder/utils"
)

const channelPrefix = "tableorder:restaurant:"

// Channel is the Redis pub/sub channel carrying a restaurant's events.
func Channel(restaurantID uint) string {
	return fmt.Sprintf("%s%d", channelPrefix, restaurantID)
}

type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisRelay shares events between server instances. Publish delivers to
// the local hub and to Redis; Run feeds events from other instances into
// the local hub.
type RedisRelay struct {
	hub    *Hub
	client *redis.Client
	origin string
}

func NewRedisRelay(hub *Hub, client *redis.Client) *RedisRelay {
	return &RedisRelay{
		hub:    hub,
		client: client,
		origin: uuid.NewString(),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, ev Event) {
	r.hub.Publish(ctx, ev)

	payload, err := json.Marshal(envelope{Origin: r.origin, Event: ev})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", ev.Kind, err)
		return
	}
	if err := r.client.Publish(ctx, Channel(ev.RestaurantID), payload).Err(); err != nil {
		utils.ErrorLogger.Printf("Error relaying %s event for restaurant %d: %v", ev.Kind, ev.RestaurantID, err)
	}
}

// Run blocks until ctx is done or the subscription is closed.
func (r *RedisRelay) Run(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s*: %w", channelPrefix, err)
	}
	utils.InfoLogger.Printf("Relaying events from redis channels %s*", channelPrefix)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(ctx, msg.Payload)
		}
	}
}

// handle republishes a relayed payload locally and reports whether it did.
// Events this instance sent itself are skipped.
func (r *RedisRelay) handle(ctx context.Context, payload string) bool {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		utils.ErrorLogger.Printf("Error decoding relayed event: %v", err)
		return false
	}
	if env.Origin == r.origin {
		return false
	}
	r.hub.Publish(ctx, env.Event)
	return true
}
