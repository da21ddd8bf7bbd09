package suggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fitlink/fitlink-backend/internal/events"
	"github.com/fitlink/fitlink-backend/internal/profiles"
)

// EventSource supplies the eligible event pool (future, not cancelled).
type EventSource interface {
	ListEligibleEvents(ctx context.Context, from time.Time) ([]*events.Event, error)
}

// ProfileSource supplies the subject profile and the user candidate pool.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*profiles.Profile, error)
	ListProfiles(ctx context.Context, excludeUserID string) ([]*profiles.Profile, error)
}

type Service interface {
	EventSuggestions(ctx context.Context, userID string) ([]EventSuggestion, error)
	UserSuggestions(ctx context.Context, userID string) ([]UserSuggestion, error)
}

type service struct {
	profiles ProfileSource
	events   EventSource
	cache    *redis.Client // optional; nil disables caching
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(profileSource ProfileSource, eventSource EventSource, cache *redis.Client, cacheTTL time.Duration) Service {
	return &service{
		profiles: profileSource,
		events:   eventSource,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (s *service) EventSuggestions(ctx context.Context, userID string) ([]EventSuggestion, error) {
	cacheKey := fmt.Sprintf("suggestions:events:%s", userID)
	var cached []EventSuggestion
	if s.cacheGet(ctx, cacheKey, &cached) {
		cacheHits.WithLabelValues("events").Inc()
		return cached, nil
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	subject := SubjectFromProfile(profile)

	pool, err := s.events.ListEligibleEvents(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	result := SuggestEvents(subject, pool)

	suggestionsServed.WithLabelValues("events").Inc()
	for _, sg := range result {
		tierPlacements.WithLabelValues("events", string(sg.Reason)).Inc()
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *service) UserSuggestions(ctx context.Context, userID string) ([]UserSuggestion, error) {
	cacheKey := fmt.Sprintf("suggestions:users:%s", userID)
	var cached []UserSuggestion
	if s.cacheGet(ctx, cacheKey, &cached) {
		cacheHits.WithLabelValues("users").Inc()
		return cached, nil
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	subject := SubjectFromProfile(profile)

	pool, err := s.profiles.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := SuggestUsers(subject, pool)

	suggestionsServed.WithLabelValues("users").Inc()
	for _, sg := range result {
		tierPlacements.WithLabelValues("users", string(sg.Reason)).Inc()
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

// Cache helpers. Redis is best-effort throughout: a miss, a decode failure
// or a down cache just means recomputing.

func (s *service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		log.Printf("Warning: failed to cache %s: %v", key, err)
	}
}
