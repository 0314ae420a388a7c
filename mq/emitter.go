package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"recipepress/logging"
	"recipepress/models"
	"recipepress/rdx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const Channel = "recipe-events"

// Emitter publishes change events. Publishing is best effort.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content models.Index)
}

// Event is the envelope put on the channel.
type Event struct {
	Name    string       `json:"name"`
	Content models.Index `json:"content"`
}

// RedisEmitter publishes to the Redis channel.
type RedisEmitter struct {
	Client *redis.Client
}

func (e *RedisEmitter) Emit(ctx context.Context, eventName string, content models.Index) {
	log := logging.L().With(zap.String("event", eventName))

	data, err := json.Marshal(Event{Name: eventName, Content: content})
	if err != nil {
		log.Warn("failed to marshal event content", zap.Error(err))
		return
	}

	if err := e.Client.Publish(ctx, Channel, data).Err(); err != nil {
		log.Warn("failed to publish event to Redis", zap.Error(err))
		return
	}
	log.Debug("event published", zap.String("channel", Channel), zap.String("item_id", content.ItemId))
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, string, models.Index) {}

// Recorder keeps events in memory; used by tests and the offline CLI.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(_ context.Context, eventName string, content models.Index) {
	r.Events = append(r.Events, Event{Name: eventName, Content: content})
}

// RecipeID extracts the affected recipe from an event, if any.
func RecipeID(ev Event) (int64, bool) {
	id := ev.Content.ItemId
	if ev.Content.EntityType == "recipe" {
		id = ev.Content.EntityId
	}
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Forgetter drops one term from a process-local lookup cache.
type Forgetter interface {
	Forget(termID int64)
}

// Handle applies one event to the render caches. A term event also drops
// that term from terms, which may be nil.
func Handle(ctx context.Context, cache rdx.Cache, terms Forgetter, ev Event) error {
	if ev.Content.EntityType == "term" && terms != nil {
		if id, err := strconv.ParseInt(ev.Content.EntityId, 10, 64); err == nil {
			terms.Forget(id)
		}
	}
	switch ev.Content.EntityType {
	case "settings", "term":
		// affects renderings of every recipe
		if f, ok := cache.(rdx.Flusher); ok {
			return f.FlushRenderings(ctx)
		}
		return nil
	}
	id, ok := RecipeID(ev)
	if !ok {
		return nil
	}
	return rdx.Invalidate(ctx, cache, id)
}

// StartInvalidationWorker listens for change events and drops the cached
// renderings of the affected recipe. It returns when ctx is done.
func StartInvalidationWorker(ctx context.Context, client *redis.Client, cache rdx.Cache, terms Forgetter) {
	log := logging.L().Named("invalidation")
	sub := client.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Info("listening for recipe events", zap.String("channel", Channel))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn("failed to parse event", zap.Error(err))
				continue
			}
			if err := Handle(ctx, cache, terms, ev); err != nil {
				log.Warn("invalidate failed", zap.String("event", ev.Name), zap.Error(err))
				continue
			}
			log.Debug("caches invalidated", zap.String("event", ev.Name), zap.String("item_id", ev.Content.ItemId))
		}
	}
}
