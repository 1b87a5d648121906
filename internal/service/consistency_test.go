package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// interleave 在第一次查询 table 之后并发执行 fn，并最多等待 wait 让它先跑完。
// 写操作的存在性检查若不在事务内加锁，fn 会插进检查与写入之间。
func interleave(t *testing.T, env *testEnv, table string, wait time.Duration, fn func() error) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	var once sync.Once
	err := env.store.DB().Callback().Query().After("gorm:query").Register("test:interleave", func(db *gorm.DB) {
		if db.Statement.Table != table {
			return
		}
		once.Do(func() {
			finished := make(chan struct{})
			go func() {
				done <- fn()
				close(finished)
			}()
			select {
			case <-finished:
			case <-time.After(wait):
			}
		})
	})
	require.NoError(t, err)
	return done
}

func countRows(t *testing.T, env *testEnv, m any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.store.DB().Model(m).Where(where, args...).Count(&n).Error)
	return n
}

func TestFilmService_LikeRacingUserDeleteLeavesNoOrphan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 2)
	target, ghost := users[0], users[1]
	film := env.createFilm(t, "Solaris")
	require.NoError(t, env.films.AddLike(ctx, film, target))

	deleted := interleave(t, env, "users", 200*time.Millisecond, func() error {
		return env.users.Delete(context.Background(), ghost)
	})
	likeErr := env.films.AddLike(ctx, film, ghost)
	require.NoError(t, <-deleted)
	if likeErr != nil {
		assert.True(t, apperror.IsNotFound(likeErr), likeErr)
	}

	_, err := env.users.Get(ctx, ghost)
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, countRows(t, env, &model.Like{}, "user_id = ?", ghost))
	assert.Zero(t, countRows(t, env, &model.FeedEvent{}, "user_id = ?", ghost))
	assert.Equal(t, int64(1), countRows(t, env, &model.Like{}, "film_id = ?", film))

	_, found, err := env.store.Likes.NearestNeighbor(ctx, target)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReviewService_RatingRacingReviewDeleteLeavesNoOrphan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 2)
	film := env.createFilm(t, "Mirror")
	rv, err := env.reviews.Create(ctx, &model.Review{
		Content: "dreamlike", IsPositive: boolPtr(true), UserID: users[0], FilmID: film,
	})
	require.NoError(t, err)

	deleted := interleave(t, env, "reviews", 200*time.Millisecond, func() error {
		return env.reviews.Delete(context.Background(), rv.ID)
	})
	rateErr := env.reviews.AddReviewLike(ctx, rv.ID, users[1])
	require.NoError(t, <-deleted)
	if rateErr != nil {
		assert.True(t, apperror.IsNotFound(rateErr), rateErr)
	}

	assert.Zero(t, countRows(t, env, &model.ReviewRating{}, "review_id = ?", rv.ID))
}

func TestReviewService_ConcurrentDeletesEmitOneRemoval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 1)
	film := env.createFilm(t, "Stalker")
	rv, err := env.reviews.Create(ctx, &model.Review{
		Content: "the zone", IsPositive: boolPtr(true), UserID: users[0], FilmID: film,
	})
	require.NoError(t, err)

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.reviews.Delete(ctx, rv.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, apperror.IsNotFound(err), err)
	}
	assert.Equal(t, 1, ok)

	feed, err := env.feed.GetUserFeed(ctx, users[0])
	require.NoError(t, err)
	removals := 0
	for _, e := range feed {
		if e.EventType == model.EventReview && e.Operation == model.OperationRemove {
			removals++
		}
	}
	assert.Equal(t, 1, removals)
}

func TestFilmService_CreateRacingDirectorDeleteLeavesNoDanglingLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	d, err := env.directors.Create(ctx, &model.Director{Name: "Andrei Tarkovsky"})
	require.NoError(t, err)

	deleted := interleave(t, env, "directors", 200*time.Millisecond, func() error {
		return env.directors.Delete(context.Background(), d.ID)
	})
	f, createErr := env.films.Create(ctx, newFilm("Nostalghia", withDirectors(d.ID)))
	require.NoError(t, <-deleted)
	if createErr != nil {
		assert.True(t, apperror.IsNotFound(createErr), createErr)
		return
	}

	got, err := env.films.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Directors)
}
