package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 4)
	target, near, far, loner := users[0], users[1], users[2], users[3]

	shared1 := env.createFilm(t, "Shared 1")
	shared2 := env.createFilm(t, "Shared 2")
	fromNear1 := env.createFilm(t, "Near pick 1")
	fromNear2 := env.createFilm(t, "Near pick 2")
	fromFar := env.createFilm(t, "Far pick")

	like := func(u int64, films ...int64) {
		for _, f := range films {
			require.NoError(t, env.films.AddLike(ctx, f, u))
		}
	}
	like(target, shared1, shared2)
	like(near, shared1, shared2, fromNear1, fromNear2)
	like(far, shared1, fromFar, fromNear2)

	films, err := env.recommender.GetRecommendations(ctx, target)
	require.NoError(t, err)
	// fromNear2 有两个赞，排在前面
	assert.Equal(t, []int64{fromNear2, fromNear1}, filmIDs(films))
	assert.Equal(t, int64(2), films[0].Likes)

	films, err = env.recommender.GetRecommendations(ctx, loner)
	require.NoError(t, err)
	assert.Empty(t, films)

	_, err = env.recommender.GetRecommendations(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecommendations_TieBreaksOnLowestUserID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 3)
	shared := env.createFilm(t, "Shared")
	first := env.createFilm(t, "First neighbour pick")
	second := env.createFilm(t, "Second neighbour pick")

	require.NoError(t, env.films.AddLike(ctx, shared, users[0]))
	require.NoError(t, env.films.AddLike(ctx, shared, users[1]))
	require.NoError(t, env.films.AddLike(ctx, shared, users[2]))
	require.NoError(t, env.films.AddLike(ctx, first, users[1]))
	require.NoError(t, env.films.AddLike(ctx, second, users[2]))

	films, err := env.recommender.GetRecommendations(ctx, users[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{first}, filmIDs(films))
}

func TestRecommendations_NeighbourWithNothingNew(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := env.createUsers(t, 2)
	f := env.createFilm(t, "Only")
	require.NoError(t, env.films.AddLike(ctx, f, users[0]))
	require.NoError(t, env.films.AddLike(ctx, f, users[1]))

	films, err := env.recommender.GetRecommendations(ctx, users[0])
	require.NoError(t, err)
	assert.Empty(t, films)
}
