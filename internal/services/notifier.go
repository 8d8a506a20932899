package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

// HubNotifier pushes change events to connected websocket clients.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(_ context.Context, entityType string, entityID uint, state string) {
	n.hub.SendChangeEvent(ChangeEvent{Entity: entityType, ID: entityID, State: state})
}

// RedisNotifier mirrors change events into Redis pub/sub.
type RedisNotifier struct{}

func NewRedisNotifier() *RedisNotifier {
	return &RedisNotifier{}
}

func (n *RedisNotifier) Notify(ctx context.Context, entityType string, entityID uint, state string) {
	if err := PublishChange(ctx, entityType, entityID, state); err != nil {
		log.Printf("Failed to publish change to Redis: %v", err)
	}
}

// MQNotifier forwards change events to RabbitMQ with a routing key of the
// form "<entity>.<state>", e.g. "request.approved".
type MQNotifier struct {
	pub *MQPublisher
}

func NewMQNotifier(pub *MQPublisher) *MQNotifier {
	return &MQNotifier{pub: pub}
}

func (n *MQNotifier) Notify(ctx context.Context, entityType string, entityID uint, state string) {
	key := fmt.Sprintf("%s.%s", entityType, state)
	err := n.pub.PublishJSON(ctx, key, map[string]interface{}{
		"entity":    entityType,
		"id":        entityID,
		"state":     state,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		log.Printf("Failed to publish change to RabbitMQ: %v", err)
	}
}
