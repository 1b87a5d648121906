package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/filmgraph/config"
	_ "github.com/d60-Lab/filmgraph/docs"
	"github.com/d60-Lab/filmgraph/internal/api/handler"
	"github.com/d60-Lab/filmgraph/internal/api/middleware"
	"github.com/d60-Lab/filmgraph/pkg/metrics"
	"github.com/d60-Lab/filmgraph/pkg/validator"
)

// NewRouter 注册中间件与全部路由
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	validator.Register()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", gzip.Gzip(gzip.DefaultCompression), middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))

	users := api.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("", h.UpdateUser)
		users.GET("/:id", h.GetUser)
		users.DELETE("/:id", h.DeleteUser)

		users.PUT("/:id/friends/:friendId", h.AddFriend)
		users.DELETE("/:id/friends/:friendId", h.DeleteFriend)
		users.GET("/:id/friends", h.ListFriends)
		users.GET("/:id/friends/common/:otherId", h.ListCommonFriends)
		users.GET("/:id/friends/requests", h.ListFriendRequests)

		users.GET("/:id/recommendations", h.GetRecommendations)
		users.GET("/:id/feed", h.GetFeed)
	}

	films := api.Group("/films")
	{
		films.GET("", h.ListFilms)
		films.POST("", h.CreateFilm)
		films.PUT("", h.UpdateFilm)
		films.GET("/popular", h.PopularFilms)
		films.GET("/search", h.SearchFilms)
		films.GET("/common", h.CommonFilms)
		films.GET("/director/:directorId", h.DirectorFilms)
		films.GET("/:id", h.GetFilm)
		films.DELETE("/:id", h.DeleteFilm)
		films.PUT("/:id/like/:userId", h.AddLike)
		films.DELETE("/:id/like/:userId", h.DeleteLike)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.PUT("", h.UpdateReview)
		reviews.GET("/:id", h.GetReview)
		reviews.DELETE("/:id", h.DeleteReview)
		reviews.PUT("/:id/like/:userId", h.LikeReview)
		reviews.PUT("/:id/dislike/:userId", h.DislikeReview)
		reviews.DELETE("/:id/like/:userId", h.DeleteReviewRating)
		reviews.DELETE("/:id/dislike/:userId", h.DeleteReviewRating)
	}

	directors := api.Group("/directors")
	{
		directors.GET("", h.ListDirectors)
		directors.POST("", h.CreateDirector)
		directors.PUT("", h.UpdateDirector)
		directors.GET("/:id", h.GetDirector)
		directors.DELETE("/:id", h.DeleteDirector)
	}

	api.GET("/genres", h.ListGenres)
	api.GET("/genres/:id", h.GetGenre)
	api.GET("/mpa", h.ListMpa)
	api.GET("/mpa/:id", h.GetMpa)

	return r
}
