package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 30 * 24 * time.Hour

func tokenKey(token string) string {
	return "session:v1:" + token
}

// RedisSessionProvider keeps signed-in identities in Redis keyed by an
// opaque uuid token. Events are fanned out to subscribers with a
// non-blocking send; a slow subscriber misses events rather than
// stalling sign-in.
type RedisSessionProvider struct {
	client *redis.Client

	mu          sync.Mutex
	subscribers []chan Event
}

func NewRedisSessionProvider(client *redis.Client) *RedisSessionProvider {
	return &RedisSessionProvider{client: client}
}

func (p *RedisSessionProvider) GetCurrentUser(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	data, err := p.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return &identity, nil
}

func (p *RedisSessionProvider) SignIn(ctx context.Context, identity Identity) (string, error) {
	if identity.UserID == "" {
		return "", fmt.Errorf("identity without user id")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal identity: %w", err)
	}

	token := uuid.NewString()
	if err := p.client.Set(ctx, tokenKey(token), data, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}

	p.notify(Event{Type: EventSignedIn, Identity: &identity})
	return token, nil
}

func (p *RedisSessionProvider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	identity, err := p.GetCurrentUser(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := p.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}

	p.notify(Event{Type: EventSignedOut, Identity: identity})
	return nil
}

func (p *RedisSessionProvider) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()
	return ch
}

func (p *RedisSessionProvider) notify(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("auth: dropping %s event for slow subscriber", event.Type)
		}
	}
}
