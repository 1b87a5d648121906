package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

func TestUserService_CreateDefaultsNameToLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Create(ctx, &model.User{ID: 77, Email: "a@b.c", Login: "neo", Birthday: model.NewDate(1999, 3, 31)})
	require.NoError(t, err)
	assert.NotEqual(t, int64(77), u.ID)
	assert.Equal(t, "neo", u.Name)

	u.Name = ""
	u.Login = "theone"
	got, err := env.users.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "theone", got.Name)

	_, err = env.users.Update(ctx, &model.User{ID: 999, Login: "x", Birthday: model.NewDate(1999, 1, 1)})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUserService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 3)
	gone, friend, stranger := users[0], users[1], users[2]
	film := env.createFilm(t, "Metropolis")

	require.NoError(t, env.friends.AddFriend(ctx, gone, friend))
	require.NoError(t, env.friends.AddFriend(ctx, friend, gone))
	require.NoError(t, env.friends.AddFriend(ctx, stranger, gone))
	require.NoError(t, env.films.AddLike(ctx, film, gone))
	require.NoError(t, env.films.AddLike(ctx, film, friend))

	own, err := env.reviews.Create(ctx, &model.Review{Content: "mine", IsPositive: boolPtr(true), UserID: gone, FilmID: film})
	require.NoError(t, err)
	theirs, err := env.reviews.Create(ctx, &model.Review{Content: "theirs", IsPositive: boolPtr(true), UserID: friend, FilmID: film})
	require.NoError(t, err)
	require.NoError(t, env.reviews.AddReviewLike(ctx, own.ID, friend))
	require.NoError(t, env.reviews.AddReviewLike(ctx, theirs.ID, gone))

	require.NoError(t, env.users.Delete(ctx, gone))

	_, err = env.users.Get(ctx, gone)
	assert.True(t, apperror.IsNotFound(err))
	friends, err := env.friends.GetFriends(ctx, friend)
	require.NoError(t, err)
	assert.Empty(t, friends)
	pending, err := env.friends.GetFriendRequests(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, pending.Outgoing)

	f, err := env.films.Get(ctx, film)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.Likes)

	_, err = env.reviews.Get(ctx, own.ID)
	assert.True(t, apperror.IsNotFound(err))
	rv, err := env.reviews.Get(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Zero(t, rv.Useful)

	var n int64
	require.NoError(t, env.store.DB().Table("feed_events").Where("user_id = ?", gone).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, env.store.DB().Table("review_ratings").Where("review_id = ?", own.ID).Count(&n).Error)
	assert.Zero(t, n)

	assert.True(t, apperror.IsNotFound(env.users.Delete(ctx, gone)))
	_, err = env.feed.GetUserFeed(ctx, gone)
	assert.True(t, apperror.IsNotFound(err))
}
