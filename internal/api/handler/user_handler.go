package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/response"
)

// CreateUser 注册用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body model.User true "用户信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req model.User
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	u, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

// UpdateUser 全量更新用户
// @Summary 更新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body model.User true "用户信息（含 id）"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	var req model.User
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	u, err := h.userService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// GetUser
// @Summary 查询用户
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// ListUsers
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteUser 删除用户及其点赞、好友关系、影评、评分与动态
// @Summary 删除用户
// @Tags 用户
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetRecommendations 基于共同点赞的推荐
// @Summary 推荐电影
// @Tags 推荐
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]model.Film}
// @Failure 404 {object} response.Response
// @Router /users/{id}/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	films, err := h.recommendService.GetRecommendations(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, films)
}

// GetFeed 用户动态，按发生顺序
// @Summary 用户动态
// @Tags 动态
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]model.FeedEvent}
// @Failure 404 {object} response.Response
// @Router /users/{id}/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	events, err := h.feedService.GetUserFeed(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, events)
}
