package ui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix prefixes the pub/sub channel of every node type.
const DefaultChannelPrefix = "hfnodes:ui"

// Redis publishes UI events as JSON on a pub/sub channel per node type,
// for front-ends that live in another process.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a publisher on client. An empty prefix uses
// DefaultChannelPrefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Channel returns the channel events of node are published on.
func (r *Redis) Channel(node string) string {
	return r.prefix + ":" + node
}

// Deliver implements Sink.
func (r *Redis) Deliver(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ui event: %w", err)
	}
	if err := r.client.Publish(ctx, r.Channel(ev.Node), data).Err(); err != nil {
		return fmt.Errorf("publish ui event: %w", err)
	}
	return nil
}
