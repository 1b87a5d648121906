package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.FeedEvent
}

func (p *recordingPublisher) Enqueue(e model.FeedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []model.FeedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.FeedEvent(nil), p.events...)
}

type testEnv struct {
	store     *repository.Store
	publisher *recordingPublisher

	users       UserService
	friends     FriendshipService
	films       FilmService
	ranking     RankingService
	recommender RecommendationService
	reviews     ReviewService
	directors   DirectorService
	feed        FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewStore(testutil.NewDB(t))
	pub := &recordingPublisher{}
	return &testEnv{
		store:       store,
		publisher:   pub,
		users:       NewUserService(store),
		friends:     NewFriendshipService(store, pub),
		films:       NewFilmService(store, pub),
		ranking:     NewRankingService(store),
		recommender: NewRecommendationService(store),
		reviews:     NewReviewService(store, pub),
		directors:   NewDirectorService(store),
		feed:        NewFeedService(store),
	}
}

func (e *testEnv) createUsers(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		u, err := e.users.Create(context.Background(), &model.User{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Login:    fmt.Sprintf("user%d", i),
			Birthday: model.NewDate(1985, 6, 1),
		})
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	return ids
}

type filmOpt func(*model.Film)

func withGenres(ids ...int64) filmOpt {
	return func(f *model.Film) {
		for _, id := range ids {
			f.Genres = append(f.Genres, model.Genre{ID: id})
		}
	}
}

func withDirectors(ids ...int64) filmOpt {
	return func(f *model.Film) {
		for _, id := range ids {
			f.Directors = append(f.Directors, model.Director{ID: id})
		}
	}
}

func released(d model.Date) filmOpt {
	return func(f *model.Film) { f.ReleaseDate = d }
}

func newFilm(name string, opts ...filmOpt) *model.Film {
	f := &model.Film{
		Name:        name,
		Description: "about " + name,
		ReleaseDate: model.NewDate(2000, 1, 1),
		Duration:    90,
		Mpa:         &model.Mpa{ID: 2},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (e *testEnv) createFilm(t *testing.T, name string, opts ...filmOpt) int64 {
	t.Helper()
	f, err := e.films.Create(context.Background(), newFilm(name, opts...))
	require.NoError(t, err)
	return f.ID
}

func filmIDs(films []model.Film) []int64 {
	out := make([]int64, 0, len(films))
	for _, f := range films {
		out = append(out, f.ID)
	}
	return out
}

func userIDs(users []model.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
