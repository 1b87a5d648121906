package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/internal/friendship"
	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
	"github.com/d60-Lab/filmgraph/internal/testutil"
)

func newTestStore(t testing.TB) *Store {
	t.Helper()
	return NewStore(testutil.NewDB(t))
}

func seedUsers(t testing.TB, s *Store, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		u := &model.User{
			Email:    fmt.Sprintf("u%d@example.com", i),
			Login:    fmt.Sprintf("u%d", i),
			Name:     fmt.Sprintf("User %d", i),
			Birthday: model.NewDate(1990, 1, 1+i%28),
		}
		require.NoError(t, s.Users.Create(context.Background(), u))
		ids = append(ids, u.ID)
	}
	return ids
}

func seedFilm(t testing.TB, s *Store, name string, release model.Date, genres []int64, directors []int64) int64 {
	t.Helper()
	f := &model.Film{
		Name:        name,
		Description: name + " description",
		ReleaseDate: release,
		Duration:    100,
		Mpa:         &model.Mpa{ID: 1},
	}
	for _, g := range genres {
		f.Genres = append(f.Genres, model.Genre{ID: g})
	}
	for _, d := range directors {
		f.Directors = append(f.Directors, model.Director{ID: d})
	}
	f.Normalize()
	require.NoError(t, s.Films.Create(context.Background(), f))
	return f.ID
}

func seedDirector(t testing.TB, s *Store, name string) int64 {
	t.Helper()
	d := &model.Director{Name: name}
	require.NoError(t, s.Directors.Create(context.Background(), d))
	return d.ID
}

func TestUserRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := seedUsers(t, s, 2)
	u, err := s.Users.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "u0", u.Login)
	assert.Equal(t, "1990-01-01", u.Birthday.String())

	u.Name = "Renamed"
	require.NoError(t, s.Users.Update(ctx, u))
	u, err = s.Users.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)

	err = s.Users.Update(ctx, &model.User{ID: 999, Login: "x", Birthday: model.NewDate(2000, 1, 1)})
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.Users.Get(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))

	ok, err := s.Users.Exists(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, ok)

	locked, err := s.Users.Lock(ctx, ids[1], ids[0], 999)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[1]}, locked)

	require.NoError(t, s.Users.Delete(ctx, ids[0]))
	all, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ids[1], all[0].ID)
}

func TestFriendRequestRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ids := seedUsers(t, s, 4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	st, err := s.FriendRequests.Get(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, friendship.None, st)

	require.NoError(t, s.FriendRequests.Upsert(ctx, a, b, model.FriendRequestUnapproved))
	require.NoError(t, s.FriendRequests.Upsert(ctx, c, a, model.FriendRequestApproved))
	require.NoError(t, s.FriendRequests.Upsert(ctx, d, a, model.FriendRequestUnapproved))

	st, err = s.FriendRequests.Get(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, friendship.Unapproved, st)

	friends, err := s.FriendRequests.ListFriendIDs(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{c}, friends)

	out, in, err := s.FriendRequests.ListPending(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{b}, out)
	assert.Equal(t, []int64{d}, in)

	// upsert 覆盖状态
	require.NoError(t, s.FriendRequests.Upsert(ctx, a, b, model.FriendRequestApproved))
	friends, err = s.FriendRequests.ListFriendIDs(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{b, c}, friends)

	friends, err = s.FriendRequests.ListFriendIDs(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{a}, friends)

	require.NoError(t, s.FriendRequests.Delete(ctx, a, b))
	st, err = s.FriendRequests.Get(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, friendship.None, st)

	require.NoError(t, s.FriendRequests.DeleteByUser(ctx, a))
	out, in, err = s.FriendRequests.ListPending(ctx, d)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, in)
}

func TestLikeRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 4)
	f1 := seedFilm(t, s, "One", model.NewDate(2000, 1, 1), nil, nil)
	f2 := seedFilm(t, s, "Two", model.NewDate(2001, 1, 1), nil, nil)
	f3 := seedFilm(t, s, "Three", model.NewDate(2002, 1, 1), nil, nil)

	added, err := s.Likes.Create(ctx, users[0], f1)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Likes.Create(ctx, users[0], f1)
	require.NoError(t, err)
	assert.False(t, added, "duplicate like must be ignored")

	_, err = s.Likes.Create(ctx, users[0], f2)
	require.NoError(t, err)
	// users[1] 与 users[2] 各与 users[0] 共同点赞 1 部，平局取 id 小者
	_, _ = s.Likes.Create(ctx, users[1], f1)
	_, _ = s.Likes.Create(ctx, users[1], f3)
	_, _ = s.Likes.Create(ctx, users[2], f2)

	n, ok, err := s.Likes.NearestNeighbor(ctx, users[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, users[1], n)

	_, ok, err = s.Likes.NearestNeighbor(ctx, users[3])
	require.NoError(t, err)
	assert.False(t, ok)

	unseen, err := s.Likes.FilmIDsLikedOnlyBy(ctx, users[1], users[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{f3}, unseen)

	common, err := s.Likes.CommonFilmIDs(ctx, users[0], users[1])
	require.NoError(t, err)
	assert.Equal(t, []int64{f1}, common)

	removed, err := s.Likes.Delete(ctx, users[0], f1)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Likes.Delete(ctx, users[0], f1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFilmRepository_CreateGetUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := seedDirector(t, s, "Greta Gerwig")

	id := seedFilm(t, s, "Lady Bird", model.NewDate(2017, 9, 1), []int64{2, 1, 2}, []int64{dir})
	f, err := s.Films.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lady Bird", f.Name)
	require.NotNil(t, f.Mpa)
	assert.Equal(t, "G", f.Mpa.Name)
	require.Len(t, f.Genres, 2)
	assert.Equal(t, int64(1), f.Genres[0].ID)
	assert.Equal(t, "Comedy", f.Genres[0].Name)
	require.Len(t, f.Directors, 1)
	assert.Equal(t, "Greta Gerwig", f.Directors[0].Name)
	assert.Equal(t, int64(0), f.Likes)

	f.Name = "Lady Bird (2017)"
	f.Mpa = &model.Mpa{ID: 4}
	f.Genres = []model.Genre{{ID: 3}}
	f.Directors = nil
	f.Normalize()
	require.NoError(t, s.Films.Update(ctx, f))

	f, err = s.Films.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lady Bird (2017)", f.Name)
	assert.Equal(t, "R", f.Mpa.Name)
	require.Len(t, f.Genres, 1)
	assert.Equal(t, int64(3), f.Genres[0].ID)
	assert.Empty(t, f.Directors)

	_, err = s.Films.Get(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))

	err = s.Films.Update(ctx, &model.Film{ID: 999, MpaID: 1})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, s.Films.Delete(ctx, id))
	ok, err := s.Films.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilmRepository_Find(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 3)
	nolan := seedDirector(t, s, "Christopher Nolan")
	other := seedDirector(t, s, "Someone Else")

	memento := seedFilm(t, s, "Memento", model.NewDate(2000, 9, 5), []int64{4}, []int64{nolan})
	inception := seedFilm(t, s, "Inception", model.NewDate(2010, 7, 8), []int64{4, 6}, []int64{nolan})
	up := seedFilm(t, s, "Up", model.NewDate(2009, 5, 29), []int64{3}, []int64{other})
	tenet := seedFilm(t, s, "Tenet 100%", model.NewDate(2020, 8, 26), []int64{6}, []int64{nolan})

	for _, u := range users {
		_, _ = s.Likes.Create(ctx, u, inception)
	}
	_, _ = s.Likes.Create(ctx, users[0], up)
	_, _ = s.Likes.Create(ctx, users[1], up)
	_, _ = s.Likes.Create(ctx, users[0], memento)

	ids := func(films []model.Film) []int64 {
		out := make([]int64, 0, len(films))
		for _, f := range films {
			out = append(out, f.ID)
		}
		return out
	}

	t.Run("popular", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, up, memento, tenet}, ids(films))
		assert.Equal(t, int64(3), films[0].Likes)
		assert.Equal(t, int64(0), films[3].Likes)
	})

	t.Run("limit", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, up}, ids(films))
	})

	t.Run("genre and year", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{GenreID: 6})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, tenet}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{Year: 2009})
		require.NoError(t, err)
		assert.Equal(t, []int64{up}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{GenreID: 4, Year: 2000})
		require.NoError(t, err)
		assert.Equal(t, []int64{memento}, ids(films))
	})

	t.Run("director", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{DirectorID: nolan, Order: OrderByReleaseDate})
		require.NoError(t, err)
		assert.Equal(t, []int64{memento, inception, tenet}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{DirectorID: nolan})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, memento, tenet}, ids(films))
	})

	t.Run("search", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{Search: "NOLAN", SearchDirector: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, memento, tenet}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{Search: "up", SearchTitle: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{up}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{Search: "o", SearchTitle: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, memento}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{Search: "o", SearchTitle: true, SearchDirector: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{inception, up, memento, tenet}, ids(films))

		films, err = s.Films.Find(ctx, FilmQuery{Search: "%", SearchTitle: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{tenet}, ids(films))
	})

	t.Run("explicit ids", func(t *testing.T) {
		films, err := s.Films.Find(ctx, FilmQuery{IDs: []int64{}})
		require.NoError(t, err)
		assert.Empty(t, films)

		films, err = s.Films.Find(ctx, FilmQuery{IDs: []int64{tenet, up}})
		require.NoError(t, err)
		assert.Equal(t, []int64{up, tenet}, ids(films))
	})
}

func TestReviewAndRatingRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 3)
	film := seedFilm(t, s, "Heat", model.NewDate(1995, 12, 15), nil, nil)
	positive := true

	r1 := &model.Review{Content: "great", IsPositive: &positive, UserID: users[0], FilmID: film}
	r2 := &model.Review{Content: "fine", IsPositive: &positive, UserID: users[1], FilmID: film}
	require.NoError(t, s.Reviews.Create(ctx, r1))
	require.NoError(t, s.Reviews.Create(ctx, r2))

	require.NoError(t, s.Ratings.Upsert(ctx, users[1], r2.ID, model.ReviewLikeScore))
	require.NoError(t, s.Ratings.Upsert(ctx, users[2], r2.ID, model.ReviewLikeScore))
	require.NoError(t, s.Ratings.Upsert(ctx, users[2], r1.ID, model.ReviewLikeScore))
	require.NoError(t, s.Ratings.Upsert(ctx, users[2], r1.ID, model.ReviewDislikeScore))

	got, err := s.Reviews.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got.Useful)
	assert.True(t, *got.IsPositive)

	list, err := s.Reviews.List(ctx, film, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, r2.ID, list[0].ID)
	assert.Equal(t, int64(2), list[0].Useful)

	list, err = s.Reviews.List(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	removed, err := s.Ratings.Delete(ctx, users[2], r1.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Ratings.Delete(ctx, users[2], r1.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	negative := false
	require.NoError(t, s.Reviews.Update(ctx, &model.Review{ID: r1.ID, Content: "meh", IsPositive: &negative}))
	got, err = s.Reviews.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, "meh", got.Content)
	assert.False(t, *got.IsPositive)
	assert.Equal(t, int64(0), got.Useful)

	_, err = s.Reviews.Get(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFeedRepository_OrderAndCleanup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 2)

	events := []model.FeedEvent{
		{UserID: users[0], EventType: model.EventLike, Operation: model.OperationAdd, EntityID: 7},
		{UserID: users[0], EventType: model.EventFriend, Operation: model.OperationAdd, EntityID: users[1]},
		{UserID: users[1], EventType: model.EventReview, Operation: model.OperationAdd, EntityID: 3},
		{UserID: users[0], EventType: model.EventLike, Operation: model.OperationRemove, EntityID: 7},
	}
	for i := range events {
		require.NoError(t, s.Feed.Append(ctx, &events[i]))
	}

	feed, err := s.Feed.ListByUser(ctx, users[0])
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, model.OperationAdd, feed[0].Operation)
	assert.Equal(t, model.EventFriend, feed[1].EventType)
	assert.Equal(t, model.OperationRemove, feed[2].Operation)

	require.NoError(t, s.Feed.DeleteByEntities(ctx, model.EventLike, []int64{7}))
	feed, err = s.Feed.ListByUser(ctx, users[0])
	require.NoError(t, err)
	require.Len(t, feed, 1)

	require.NoError(t, s.Feed.DeleteByUser(ctx, users[1]))
	feed, err = s.Feed.ListByUser(ctx, users[1])
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCatalogAndDirectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	genres, err := s.Catalog.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)
	mpa, err := s.Catalog.ListMpa(ctx)
	require.NoError(t, err)
	assert.Len(t, mpa, 5)

	g, err := s.Catalog.GetGenre(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Drama", g.Name)
	_, err = s.Catalog.GetMpa(ctx, 42)
	assert.True(t, apperror.IsNotFound(err))

	missing, err := s.Catalog.MissingGenres(ctx, []int64{1, 9, 2, 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 10}, missing)

	dir := seedDirector(t, s, "Agnes Varda")
	film := seedFilm(t, s, "Cleo", model.NewDate(1962, 4, 11), nil, []int64{dir})
	require.NoError(t, s.Directors.Update(ctx, &model.Director{ID: dir, Name: "Agnès Varda"}))
	d, err := s.Directors.Get(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "Agnès Varda", d.Name)

	require.NoError(t, s.Directors.Delete(ctx, dir))
	f, err := s.Films.Get(ctx, film)
	require.NoError(t, err)
	assert.Empty(t, f.Directors)

	err = s.Directors.Update(ctx, &model.Director{ID: dir, Name: "x"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_TransactionRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 1)

	boom := fmt.Errorf("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		require.NoError(t, tx.Feed.Append(ctx, &model.FeedEvent{
			UserID: users[0], EventType: model.EventLike, Operation: model.OperationAdd, EntityID: 1,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	feed, err := s.Feed.ListByUser(ctx, users[0])
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestLockReturnsExistingRowsInIDOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := seedUsers(t, s, 1)
	d := seedDirector(t, s, "Agnès Varda")
	f1 := seedFilm(t, s, "Cleo", model.NewDate(1962, 4, 11), nil, []int64{d})
	f2 := seedFilm(t, s, "Vagabond", model.NewDate(1985, 12, 4), nil, nil)
	positive := true
	rv := &model.Review{Content: "timely", IsPositive: &positive, UserID: users[0], FilmID: f1}
	require.NoError(t, s.Reviews.Create(ctx, rv))

	err := s.Transaction(ctx, func(tx *Store) error {
		films, err := tx.Films.Lock(ctx, f2, 999, f1)
		require.NoError(t, err)
		assert.Equal(t, []int64{f1, f2}, films)

		reviews, err := tx.Reviews.Lock(ctx, rv.ID, 999)
		require.NoError(t, err)
		assert.Equal(t, []int64{rv.ID}, reviews)

		directors, err := tx.Directors.Lock(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, []int64{d}, directors)

		none, err := tx.Users.Lock(ctx)
		require.NoError(t, err)
		assert.Empty(t, none)
		return nil
	})
	require.NoError(t, err)
}
