package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"codeclash/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const MatchEventsChannel = "matches:events"

type Type string

const (
	TypeMatchCreated   Type = "match_created"
	TypeMatchCompleted Type = "match_completed"
)

// Event is the JSON payload published for lifecycle transitions; the UI
// gateway subscribes to stop its players from polling.
type Event struct {
	Type       Type               `json:"type"`
	MatchID    uuid.UUID          `json:"match_id"`
	Mode       models.MatchMode   `json:"mode"`
	Status     models.MatchStatus `json:"status"`
	Players    []string           `json:"players"`
	WinnerID   *string            `json:"winner_id,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// Broker publishes match lifecycle events over redis pub/sub. Publishing is
// best-effort: a dropped event only delays a poll, it never loses state.
type Broker struct {
	client *redis.Client
}

func NewBroker(client *redis.Client) *Broker {
	return &Broker{client: client}
}

func (b *Broker) MatchCreated(ctx context.Context, match *models.Match) {
	b.publish(ctx, TypeMatchCreated, match)
}

func (b *Broker) MatchCompleted(ctx context.Context, match *models.Match) {
	b.publish(ctx, TypeMatchCompleted, match)
}

func (b *Broker) publish(ctx context.Context, eventType Type, match *models.Match) {
	players := []string{match.Player1ID}
	if match.Player2ID != nil {
		players = append(players, *match.Player2ID)
	}

	event := Event{
		Type:       eventType,
		MatchID:    match.ID,
		Mode:       match.Mode,
		Status:     match.Status,
		Players:    players,
		WinnerID:   match.WinnerID,
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for match %s: %v", eventType, match.ID, err)
		return
	}

	if err := b.client.Publish(ctx, MatchEventsChannel, data).Err(); err != nil {
		log.Printf("Failed to publish %s event for match %s: %v", eventType, match.ID, err)
	}
}

// Subscribe returns a channel of match events, closed when the context is
// cancelled.
func (b *Broker) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := b.client.Subscribe(ctx, MatchEventsChannel)

	eventChan := make(chan Event, 10)

	go func() {
		defer close(eventChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Failed to unmarshal match event: %v", err)
					continue
				}

				select {
				case eventChan <- event:
				case <-ctx.Done():
					return
				default:
					log.Printf("Event channel full, dropping event for match %s", event.MatchID)
				}
			}
		}
	}()

	return eventChan, nil
}
