package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/service"
	"github.com/d60-Lab/filmgraph/pkg/response"
)

// CreateFilm
// @Summary 创建电影
// @Tags 电影
// @Accept json
// @Produce json
// @Param request body model.Film true "电影信息"
// @Success 201 {object} response.Response{data=model.Film}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films [post]
func (h *Handler) CreateFilm(c *gin.Context) {
	var req model.Film
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := h.filmService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, f)
}

// UpdateFilm 全量替换，包括类型与导演
// @Summary 更新电影
// @Tags 电影
// @Accept json
// @Produce json
// @Param request body model.Film true "电影信息（含 id）"
// @Success 200 {object} response.Response{data=model.Film}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films [put]
func (h *Handler) UpdateFilm(c *gin.Context) {
	var req model.Film
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	f, err := h.filmService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, f)
}

// GetFilm
// @Summary 查询电影
// @Tags 电影
// @Produce json
// @Param id path int true "电影ID"
// @Success 200 {object} response.Response{data=model.Film}
// @Failure 404 {object} response.Response
// @Router /films/{id} [get]
func (h *Handler) GetFilm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.filmService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, f)
}

// ListFilms
// @Summary 电影列表
// @Tags 电影
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Film}
// @Router /films [get]
func (h *Handler) ListFilms(c *gin.Context) {
	list, err := h.filmService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteFilm 同时删除点赞、影评及相关动态
// @Summary 删除电影
// @Tags 电影
// @Param id path int true "电影ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id} [delete]
func (h *Handler) DeleteFilm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.filmService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddLike
// @Summary 点赞电影
// @Tags 点赞
// @Param id path int true "电影ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id}/like/{userId} [put]
func (h *Handler) AddLike(c *gin.Context) {
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.filmService.AddLike(c.Request.Context(), filmID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteLike 未点赞时也返回成功
// @Summary 取消点赞
// @Tags 点赞
// @Param id path int true "电影ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id}/like/{userId} [delete]
func (h *Handler) DeleteLike(c *gin.Context) {
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.filmService.DeleteLike(c.Request.Context(), filmID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// PopularFilms 按点赞数排行
// @Summary 热门电影
// @Tags 排行
// @Produce json
// @Param count query int false "数量" default(10)
// @Param genreId query int false "类型ID"
// @Param year query string false "上映年份（四位）"
// @Success 200 {object} response.Response{data=[]model.Film}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/popular [get]
func (h *Handler) PopularFilms(c *gin.Context) {
	count, ok := queryInt(c, "count")
	if !ok {
		return
	}
	genreID, ok := queryInt64(c, "genreId")
	if !ok {
		return
	}
	films, err := h.rankingService.FilmsPopular(c.Request.Context(), service.PopularQuery{
		Count:   count,
		GenreID: genreID,
		Year:    c.Query("year"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, films)
}

// DirectorFilms 导演作品
// @Summary 导演作品
// @Tags 排行
// @Produce json
// @Param directorId path int true "导演ID"
// @Param sortBy query string false "year 或 likes" default(year)
// @Success 200 {object} response.Response{data=[]model.Film}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/director/{directorId} [get]
func (h *Handler) DirectorFilms(c *gin.Context) {
	directorID, ok := pathID(c, "directorId")
	if !ok {
		return
	}
	films, err := h.rankingService.GetFilmsOfDirectors(c.Request.Context(), directorID, c.Query("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, films)
}

// SearchFilms 按片名/导演名子串搜索（不区分大小写）
// @Summary 搜索电影
// @Tags 排行
// @Produce json
// @Param query query string false "关键词"
// @Param by query string true "title,director"
// @Success 200 {object} response.Response{data=[]model.Film}
// @Failure 400 {object} response.Response
// @Router /films/search [get]
func (h *Handler) SearchFilms(c *gin.Context) {
	films, err := h.rankingService.FilmSearch(c.Request.Context(), c.Query("query"), c.Query("by"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, films)
}

// CommonFilms 两个用户都点赞过的电影
// @Summary 共同喜欢的电影
// @Tags 排行
// @Produce json
// @Param userId query int true "用户ID"
// @Param friendId query int true "好友ID"
// @Success 200 {object} response.Response{data=[]model.Film}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/common [get]
func (h *Handler) CommonFilms(c *gin.Context) {
	userID, ok := queryInt64(c, "userId")
	if !ok {
		return
	}
	friendID, ok := queryInt64(c, "friendId")
	if !ok {
		return
	}
	if userID == nil || friendID == nil {
		response.BadRequest(c, "userId and friendId are required")
		return
	}
	films, err := h.rankingService.CommonFilms(c.Request.Context(), *userID, *friendID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, films)
}
