package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/internal/service"
	"github.com/d60-Lab/filmgraph/pkg/response"
)

// Handler 聚合所有 HTTP 处理器依赖的服务
type Handler struct {
	userService      service.UserService
	friendService    service.FriendshipService
	filmService      service.FilmService
	rankingService   service.RankingService
	recommendService service.RecommendationService
	reviewService    service.ReviewService
	directorService  service.DirectorService
	catalogService   service.CatalogService
	feedService      service.FeedService
	ping             func() error
}

// Services 构造 Handler 所需的服务集合
type Services struct {
	Users           service.UserService
	Friends         service.FriendshipService
	Films           service.FilmService
	Ranking         service.RankingService
	Recommendations service.RecommendationService
	Reviews         service.ReviewService
	Directors       service.DirectorService
	Catalog         service.CatalogService
	Feed            service.FeedService
	// Ping 健康检查，nil 表示总是健康
	Ping func() error
}

func NewHandler(s Services) *Handler {
	return &Handler{
		userService:      s.Users,
		friendService:    s.Friends,
		filmService:      s.Films,
		rankingService:   s.Ranking,
		recommendService: s.Recommendations,
		reviewService:    s.Reviews,
		directorService:  s.Directors,
		catalogService:   s.Catalog,
		feedService:      s.Feed,
		ping:             s.Ping,
	}
}

// pathID 解析路径中的正整数 id，失败时已写入 400
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt 可选整数查询参数；未提供返回 nil
func queryInt(c *gin.Context, name string) (*int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, name+": must be an integer")
		return nil, false
	}
	return &v, true
}

func queryInt64(c *gin.Context, name string) (*int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, name+": must be an integer")
		return nil, false
	}
	return &v, true
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			response.InternalError(c, err)
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
