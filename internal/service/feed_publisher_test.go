package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/internal/model"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestStreamPublisher_WritesToUserStream(t *testing.T) {
	_, rdb := newMiniRedis(t)
	p := NewStreamPublisher(rdb, 16, 100)
	stop := p.Start(2)

	ts := time.UnixMilli(1700000000123).UTC()
	p.Enqueue(model.FeedEvent{ID: 1, UserID: 7, EventType: model.EventLike, Operation: model.OperationAdd, EntityID: 3, CreatedAt: ts})
	p.Enqueue(model.FeedEvent{ID: 2, UserID: 7, EventType: model.EventFriend, Operation: model.OperationRemove, EntityID: 9, CreatedAt: ts})
	p.Enqueue(model.FeedEvent{ID: 3, UserID: 8, EventType: model.EventReview, Operation: model.OperationUpdate, EntityID: 4, CreatedAt: ts})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		n, err := rdb.XLen(ctx, StreamKey(7)).Result()
		return err == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	msgs, err := rdb.XRange(ctx, StreamKey(8), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "REVIEW", msgs[0].Values["eventType"])
	assert.Equal(t, "UPDATE", msgs[0].Values["operation"])
	assert.Equal(t, "4", msgs[0].Values["entityId"])
	assert.Equal(t, "1700000000123", msgs[0].Values["timestamp"])
}

func TestStreamPublisher_StopDrainsQueue(t *testing.T) {
	_, rdb := newMiniRedis(t)
	p := NewStreamPublisher(rdb, 16, 0)
	for i := int64(1); i <= 5; i++ {
		p.Enqueue(model.FeedEvent{ID: i, UserID: 1, EventType: model.EventLike, Operation: model.OperationAdd, EntityID: i})
	}
	stop := p.Start(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
	assert.Zero(t, p.QueueLen())

	n, err := rdb.XLen(context.Background(), StreamKey(1)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestStreamPublisher_DropsWhenQueueFull(t *testing.T) {
	_, rdb := newMiniRedis(t)
	p := NewStreamPublisher(rdb, 2, 0)

	for i := int64(1); i <= 4; i++ {
		p.Enqueue(model.FeedEvent{ID: i, UserID: 1})
	}
	assert.Equal(t, 2, p.QueueLen())
}

func TestStreamPublisher_ReceivesCommittedServiceEvents(t *testing.T) {
	_, rdb := newMiniRedis(t)
	env := newTestEnv(t)
	p := NewStreamPublisher(rdb, 16, 1000)
	stop := p.Start(1)
	films := NewFilmService(env.store, p)

	ctx := context.Background()
	users := env.createUsers(t, 1)
	film := env.createFilm(t, "Nosferatu")
	require.NoError(t, films.AddLike(ctx, film, users[0]))
	require.NoError(t, films.AddLike(ctx, film, users[0]))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	msgs, err := rdb.XRange(ctx, StreamKey(users[0]), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "LIKE", msgs[0].Values["eventType"])
}
