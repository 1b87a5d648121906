package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/filmgraph/config"
	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/internal/service"
	"github.com/d60-Lab/filmgraph/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// run 以 conc 个 worker 执行 n 次 op，返回总耗时与单次延迟
func run(n, conc int, op func(i int)) (time.Duration, []time.Duration) {
	if conc > n {
		conc = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	lat := make(chan time.Duration, n)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				op(i)
				lat <- time.Since(st)
			}
		}()
	}
	wg.Wait()
	total := time.Since(t0)
	close(lat)
	recs := make([]time.Duration, 0, n)
	for d := range lat {
		recs = append(recs, d)
	}
	return total, recs
}

func report(name string, n int, total time.Duration, recs []time.Duration) {
	fmt.Printf("%-14s total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		name, total, total/time.Duration(n), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	store := repository.NewStore(db)
	ctx := context.Background()

	N := envInt("N", 2000)
	CONC := envInt("CONC", 1)
	FILMS := envInt("FILMS", 200)

	var publisher service.FeedPublisher
	var sp *service.StreamPublisher
	stop := func(context.Context) error { return nil }
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		sp = service.NewStreamPublisher(rdb, cfg.Feed.QueueSize, cfg.Redis.StreamMaxLen)
		stop = sp.Start(cfg.Feed.Workers)
		publisher = sp
	}
	users := service.NewUserService(store)
	friends := service.NewFriendshipService(store, publisher)
	films := service.NewFilmService(store, publisher)
	ranking := service.NewRankingService(store)
	recommend := service.NewRecommendationService(store)

	// u0 是热门用户，其余用户都向其发起好友申请
	celeb := must(users.Create(ctx, &model.User{Email: "celeb@example.com", Login: "celeb", Birthday: model.NewDate(1980, 1, 1)}))
	ids := make([]int64, N)
	for i := range ids {
		u := must(users.Create(ctx, &model.User{
			Email:    fmt.Sprintf("bench%d@example.com", i),
			Login:    fmt.Sprintf("bench%d", i),
			Birthday: model.NewDate(1990, 1, 1+i%28),
		}))
		ids[i] = u.ID
	}
	filmIDs := make([]int64, FILMS)
	for i := range filmIDs {
		f := must(films.Create(ctx, &model.Film{
			Name:        fmt.Sprintf("bench film %d", i),
			Description: "bench",
			ReleaseDate: model.NewDate(1990+i%30, 6, 1),
			Duration:    90,
			Mpa:         &model.Mpa{ID: 1},
			Genres:      []model.Genre{{ID: int64(1 + i%6)}},
		}))
		filmIDs[i] = f.ID
	}

	maxQ := 0
	quitSample := make(chan struct{})
	if sp != nil {
		go func() {
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if q := sp.QueueLen(); q > maxQ {
						maxQ = q
					}
				case <-quitSample:
					return
				}
			}
		}()
	}

	fmt.Printf("N=%d, CONC=%d, FILMS=%d, redis=%v\n", N, CONC, FILMS, cfg.Redis.Enabled)

	total, recs := run(N, CONC, func(i int) { _ = friends.AddFriend(ctx, ids[i], celeb.ID) })
	report("request", N, total, recs)
	total, recs = run(N, CONC, func(i int) { _ = friends.AddFriend(ctx, celeb.ID, ids[i]) })
	report("confirm", N, total, recs)

	likes := N * 5
	total, recs = run(likes, CONC, func(i int) {
		_ = films.AddLike(ctx, filmIDs[(i*7+i/N)%FILMS], ids[i%N])
	})
	report("like", likes, total, recs)

	q := 200
	total, recs = run(q, CONC, func(int) { _, _ = friends.GetFriends(ctx, celeb.ID) })
	report("friends", q, total, recs)
	total, recs = run(q, CONC, func(int) { _, _ = ranking.FilmsPopular(ctx, service.PopularQuery{}) })
	report("popular", q, total, recs)
	total, recs = run(q, CONC, func(i int) { _, _ = recommend.GetRecommendations(ctx, ids[i%N]) })
	report("recommend", q, total, recs)

	close(quitSample)
	drainStart := time.Now()
	if err := stop(ctx); err != nil {
		fmt.Printf("publisher stop: %v\n", err)
	}
	if sp != nil {
		fmt.Printf("feed publish: maxQueue=%d, drain=%v\n", maxQ, time.Since(drainStart))
	}
}
