// Package store provides the persistence and notification collaborators for
// the booking service: a Redis-backed store for deployments with Redis and
// log-only fallbacks for local development.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
)

// Key layout. Booking records are keyed by confirmation number; retry
// schedules are keyed by itinerary so the attempt counter survives across
// reconciliation attempts (each attempt mints a fresh confirmation number).
const (
	bookingKeyPrefix  = "booking:"
	scheduleKeyPrefix = "schedule:"
	retryQueueKey     = "booking:retries"
	eventStreamKey    = "booking:events"
)

// Retry pacing for pending bookings: doubling from 15 minutes, capped at 6
// hours. The queue is drained by an external scheduler, not by this process.
const (
	baseRetryDelay = 15 * time.Minute
	maxRetryDelay  = 6 * time.Hour
)

// bookingRecord is the persisted unit: the original request alongside the
// outcome, so a scheduler can re-drive reconciliation from the record alone.
type bookingRecord struct {
	Request *domain.BookingRequest `json:"request"`
	Result  *domain.BookingResult  `json:"result"`
}

// RedisStore persists booking outcomes and retry schedules in Redis.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	clock  timeutil.Clock
	log    *logger.Logger
}

var _ domain.BookingStore = (*RedisStore)(nil)

// NewRedisStore creates a store on an existing Redis client.
func NewRedisStore(client redis.Cmdable, ttl time.Duration, clock timeutil.Clock, log *logger.Logger) *RedisStore {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{client: client, ttl: ttl, clock: clock, log: log}
}

// Save records the outcome of one reconciliation attempt: the booking record
// itself, a status-change event on the event stream, and the retry schedule
// (upserted while pending, cleared once confirmed).
func (s *RedisStore) Save(ctx context.Context, req *domain.BookingRequest, res *domain.BookingResult) error {
	payload, err := json.Marshal(bookingRecord{Request: req, Result: res})
	if err != nil {
		return fmt.Errorf("marshal booking record: %w", err)
	}

	key := bookingKeyPrefix + res.ConfirmationNumber
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist booking %s: %w", res.ConfirmationNumber, err)
	}

	if err := s.appendEvent(ctx, req, res); err != nil {
		s.log.Warn().Err(err).Msg("Failed to append booking event")
	}

	if res.Confirmed() {
		return s.clearSchedule(ctx, req.ItineraryID)
	}
	return s.upsertSchedule(ctx, req.ItineraryID, res)
}

// Load fetches a persisted booking record by confirmation number.
func (s *RedisStore) Load(ctx context.Context, confirmation string) (*domain.BookingRequest, *domain.BookingResult, error) {
	payload, err := s.client.Get(ctx, bookingKeyPrefix+confirmation).Bytes()
	if err == redis.Nil {
		return nil, nil, fmt.Errorf("booking %s not found", confirmation)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load booking %s: %w", confirmation, err)
	}

	var record bookingRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, nil, fmt.Errorf("decode booking %s: %w", confirmation, err)
	}
	return record.Request, record.Result, nil
}

// DueRetries returns itinerary ids whose next reconciliation attempt is due.
func (s *RedisStore) DueRetries(ctx context.Context, now time.Time, limit int64) ([]string, error) {
	ids, err := s.client.ZRangeByScore(ctx, retryQueueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read retry queue: %w", err)
	}
	return ids, nil
}

// upsertSchedule advances the itinerary's retry schedule and re-queues it.
func (s *RedisStore) upsertSchedule(ctx context.Context, itineraryID string, res *domain.BookingResult) error {
	schedule, err := s.loadSchedule(ctx, itineraryID)
	if err != nil {
		return err
	}
	schedule.Attempts++
	schedule.NextRun = s.clock.Now().Add(nextRetryDelay(schedule.Attempts))
	if errs := res.LegErrors(); len(errs) > 0 {
		schedule.LastError = errs[0]
	}

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("marshal retry schedule: %w", err)
	}
	if err := s.client.Set(ctx, scheduleKeyPrefix+itineraryID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist retry schedule for %s: %w", itineraryID, err)
	}
	if err := s.client.ZAdd(ctx, retryQueueKey, redis.Z{
		Score:  float64(schedule.NextRun.Unix()),
		Member: itineraryID,
	}).Err(); err != nil {
		return fmt.Errorf("queue retry for %s: %w", itineraryID, err)
	}

	s.log.Info().
		Str("itinerary_id", itineraryID).
		Int("attempts", schedule.Attempts).
		Time("next_run", schedule.NextRun).
		Msg("Retry scheduled")
	return nil
}

// clearSchedule removes the itinerary from the retry queue once confirmed.
func (s *RedisStore) clearSchedule(ctx context.Context, itineraryID string) error {
	if err := s.client.Del(ctx, scheduleKeyPrefix+itineraryID).Err(); err != nil {
		return fmt.Errorf("clear retry schedule for %s: %w", itineraryID, err)
	}
	if err := s.client.ZRem(ctx, retryQueueKey, itineraryID).Err(); err != nil {
		return fmt.Errorf("dequeue retry for %s: %w", itineraryID, err)
	}
	return nil
}

// loadSchedule returns the existing schedule, or a zero-valued one when none
// is stored. A read failure is surfaced rather than treated as "no schedule",
// so a transient Redis error cannot reset the attempt counter.
func (s *RedisStore) loadSchedule(ctx context.Context, itineraryID string) (domain.RetrySchedule, error) {
	var schedule domain.RetrySchedule
	payload, err := s.client.Get(ctx, scheduleKeyPrefix+itineraryID).Bytes()
	if err == redis.Nil {
		return schedule, nil
	}
	if err != nil {
		return schedule, fmt.Errorf("load retry schedule for %s: %w", itineraryID, err)
	}
	if err := json.Unmarshal(payload, &schedule); err != nil {
		s.log.Warn().Err(err).Str("itinerary_id", itineraryID).Msg("Discarding unreadable retry schedule")
		return domain.RetrySchedule{}, nil
	}
	return schedule, nil
}

// appendEvent writes a status-change event to the booking event stream.
func (s *RedisStore) appendEvent(ctx context.Context, req *domain.BookingRequest, res *domain.BookingResult) error {
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: eventStreamKey,
		Values: map[string]interface{}{
			"confirmation": res.ConfirmationNumber,
			"itinerary_id": req.ItineraryID,
			"status":       string(res.Status),
			"created_at":   res.CreatedAt.Format(time.RFC3339),
		},
	}).Err()
}

// nextRetryDelay doubles from the base delay per attempt, capped.
func nextRetryDelay(attempts int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
