package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
)

// fakeRedis implements the subset of redis.Cmdable the store issues, backed
// by in-memory maps. The embedded nil interface makes any unimplemented
// command panic, so a new store command shows up as a test failure.
type fakeRedis struct {
	redis.Cmdable

	kv      map[string]string
	ttls    map[string]time.Duration
	zsets   map[string]map[string]float64
	streams map[string][]map[string]interface{}

	// getErr injects a read failure for a specific key.
	getErr map[string]error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		kv:      map[string]string{},
		ttls:    map[string]time.Duration{},
		zsets:   map[string]map[string]float64{},
		streams: map[string][]map[string]interface{}{},
		getErr:  map[string]error{},
	}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.kv[key] = string(v)
	case string:
		f.kv[key] = v
	default:
		return redis.NewStatusResult("", fmt.Errorf("unsupported value type %T", value))
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if err := f.getErr[key]; err != nil {
		return redis.NewStringResult("", err)
	}
	val, ok := f.kv[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.kv[key]; ok {
			delete(f.kv, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeRedis) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	set, ok := f.zsets[key]
	if !ok {
		set = map[string]float64{}
		f.zsets[key] = set
	}
	for _, m := range members {
		set[m.Member.(string)] = m.Score
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedis) ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	var removed int64
	for _, m := range members {
		name := m.(string)
		if _, ok := f.zsets[key][name]; ok {
			delete(f.zsets[key], name)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeRedis) ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd {
	max, err := strconv.ParseFloat(opt.Max, 64)
	if err != nil {
		return redis.NewStringSliceResult(nil, err)
	}

	type entry struct {
		member string
		score  float64
	}
	var due []entry
	for member, score := range f.zsets[key] {
		if score <= max {
			due = append(due, entry{member: member, score: score})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].score < due[j].score })
	if opt.Count > 0 && int64(len(due)) > opt.Count {
		due = due[:opt.Count]
	}

	members := make([]string, len(due))
	for i, e := range due {
		members[i] = e.member
	}
	return redis.NewStringSliceResult(members, nil)
}

func (f *fakeRedis) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	values, ok := a.Values.(map[string]interface{})
	if !ok {
		return redis.NewStringResult("", fmt.Errorf("unsupported values type %T", a.Values))
	}
	f.streams[a.Stream] = append(f.streams[a.Stream], values)
	return redis.NewStringResult(strconv.Itoa(len(f.streams[a.Stream]))+"-0", nil)
}

func (f *fakeRedis) eventStatuses() []string {
	var statuses []string
	for _, event := range f.streams[eventStreamKey] {
		statuses = append(statuses, event["status"].(string))
	}
	return statuses
}

func pendingResult(confirmation, legError string, at time.Time) *domain.BookingResult {
	return &domain.BookingResult{
		ConfirmationNumber: confirmation,
		Status:             domain.StatusPending,
		FlightError:        legError,
		CreatedAt:          at,
	}
}

func storedSchedule(t *testing.T, client *fakeRedis, itineraryID string) domain.RetrySchedule {
	t.Helper()
	payload, ok := client.kv[scheduleKeyPrefix+itineraryID]
	require.True(t, ok, "no schedule stored for %s", itineraryID)
	var schedule domain.RetrySchedule
	require.NoError(t, json.Unmarshal([]byte(payload), &schedule))
	return schedule
}

func TestRedisStoreSavePendingUpsertsSchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, timeutil.NewMockClock(now), logger.Nop())

	req := &domain.BookingRequest{ItineraryID: "itin-1"}
	res := pendingResult("TRV-AAA111-BCDEF", "flight booking failed: provider unavailable", now)

	require.NoError(t, s.Save(context.Background(), req, res))

	var record bookingRecord
	require.NoError(t, json.Unmarshal([]byte(client.kv[bookingKeyPrefix+"TRV-AAA111-BCDEF"]), &record))
	assert.Equal(t, "itin-1", record.Request.ItineraryID)
	assert.Equal(t, domain.StatusPending, record.Result.Status)
	assert.Equal(t, time.Hour, client.ttls[bookingKeyPrefix+"TRV-AAA111-BCDEF"])

	schedule := storedSchedule(t, client, "itin-1")
	assert.Equal(t, 1, schedule.Attempts)
	assert.True(t, schedule.NextRun.Equal(now.Add(15*time.Minute)))
	assert.Equal(t, "flight booking failed: provider unavailable", schedule.LastError)

	wantScore := float64(now.Add(15 * time.Minute).Unix())
	assert.Equal(t, wantScore, client.zsets[retryQueueKey]["itin-1"])

	assert.Equal(t, []string{"pending"}, client.eventStatuses())
}

func TestRedisStoreAttemptCounterSurvivesNewConfirmation(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(now)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, clock, logger.Nop())

	req := &domain.BookingRequest{ItineraryID: "itin-1"}
	require.NoError(t, s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-BCDEF", "flight booking failed: provider unavailable", now)))

	// A later attempt mints a fresh confirmation number but keys the schedule
	// by itinerary, so the counter advances instead of restarting.
	clock.Advance(20 * time.Minute)
	require.NoError(t, s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-GHJKL", "flight booking failed: provider unavailable", clock.Now())))

	schedule := storedSchedule(t, client, "itin-1")
	assert.Equal(t, 2, schedule.Attempts)
	assert.True(t, schedule.NextRun.Equal(clock.Now().Add(30*time.Minute)))
	assert.Equal(t, float64(schedule.NextRun.Unix()), client.zsets[retryQueueKey]["itin-1"])
}

func TestRedisStoreSaveConfirmedClearsSchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(now)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, clock, logger.Nop())

	req := &domain.BookingRequest{ItineraryID: "itin-1"}
	require.NoError(t, s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-BCDEF", "hotel booking failed: provider unavailable", now)))

	clock.Advance(time.Hour)
	confirmed := &domain.BookingResult{
		ConfirmationNumber: "TRV-AAA111-GHJKL",
		Status:             domain.StatusConfirmed,
		CreatedAt:          clock.Now(),
	}
	require.NoError(t, s.Save(context.Background(), req, confirmed))

	_, hasSchedule := client.kv[scheduleKeyPrefix+"itin-1"]
	assert.False(t, hasSchedule, "schedule must be deleted once confirmed")
	_, queued := client.zsets[retryQueueKey]["itin-1"]
	assert.False(t, queued, "itinerary must leave the retry queue once confirmed")

	// Both attempts remain on record and on the event stream.
	assert.Contains(t, client.kv, bookingKeyPrefix+"TRV-AAA111-BCDEF")
	assert.Contains(t, client.kv, bookingKeyPrefix+"TRV-AAA111-GHJKL")
	assert.Equal(t, []string{"pending", "confirmed"}, client.eventStatuses())
}

func TestRedisStoreLoad(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, timeutil.NewMockClock(now), logger.Nop())

	req := &domain.BookingRequest{
		ItineraryID:   "itin-1",
		ItineraryName: "Weekend in Lisbon",
		ChargedAmount: domain.Money{Amount: "812.40", Currency: "EUR"},
	}
	require.NoError(t, s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-BCDEF", "flight booking failed: provider unavailable", now)))

	gotReq, gotRes, err := s.Load(context.Background(), "TRV-AAA111-BCDEF")
	require.NoError(t, err)
	assert.Equal(t, "Weekend in Lisbon", gotReq.ItineraryName)
	assert.Equal(t, domain.Money{Amount: "812.40", Currency: "EUR"}, gotReq.ChargedAmount)
	assert.Equal(t, domain.StatusPending, gotRes.Status)

	_, _, err = s.Load(context.Background(), "TRV-MISSING-00000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRedisStoreDueRetries(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(now)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, clock, logger.Nop())

	require.NoError(t, s.Save(context.Background(),
		&domain.BookingRequest{ItineraryID: "itin-due"},
		pendingResult("TRV-AAA111-BCDEF", "flight booking failed: provider unavailable", now)))

	clock.Set(now.Add(3 * time.Hour))
	require.NoError(t, s.Save(context.Background(),
		&domain.BookingRequest{ItineraryID: "itin-later"},
		pendingResult("TRV-BBB222-BCDEF", "hotel booking failed: provider unavailable", clock.Now())))

	ids, err := s.DueRetries(context.Background(), now.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"itin-due"}, ids)

	ids, err = s.DueRetries(context.Background(), now, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStoreScheduleReadFailureDoesNotResetCounter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(now)
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour, clock, logger.Nop())

	req := &domain.BookingRequest{ItineraryID: "itin-1"}
	require.NoError(t, s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-BCDEF", "flight booking failed: provider unavailable", now)))

	// A transient read failure must surface, not masquerade as a missing
	// schedule and restart the counter from scratch.
	client.getErr[scheduleKeyPrefix+"itin-1"] = errors.New("connection reset by peer")
	clock.Advance(20 * time.Minute)
	err := s.Save(context.Background(), req,
		pendingResult("TRV-AAA111-GHJKL", "flight booking failed: provider unavailable", clock.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load retry schedule")

	delete(client.getErr, scheduleKeyPrefix+"itin-1")
	schedule := storedSchedule(t, client, "itin-1")
	assert.Equal(t, 1, schedule.Attempts, "stored schedule must be untouched after a failed read")
}
