package notify

import (
	"context"
	"encoding/json"
	"evently-backend/logger"

	"github.com/go-redis/redis"
)

type message struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// NewRedis returns an emitter that publishes notifications as JSON messages
// on the given channel.
func NewRedis(client *redis.Client, channel string) Emitter {
	return &redisEmitter{client: client, channel: channel}
}

type redisEmitter struct {
	client  *redis.Client
	channel string
}

func (e *redisEmitter) Emit(ctx context.Context, kind string, payload interface{}) {
	body, err := json.Marshal(message{Kind: kind, Payload: payload})
	if err != nil {
		logger.Errorf(ctx, "emit: unable to marshal %s notification: %+v", kind, err)
		return
	}

	err = e.client.Publish(e.channel, string(body)).Err()
	if err != nil {
		logger.Errorf(ctx, "emit: unable to publish %s notification: %+v", kind, err)
	}
}
