package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/response"
)

// CreateDirector
// @Summary 创建导演
// @Tags 导演
// @Accept json
// @Produce json
// @Param request body model.Director true "导演"
// @Success 201 {object} response.Response{data=model.Director}
// @Failure 400 {object} response.Response
// @Router /directors [post]
func (h *Handler) CreateDirector(c *gin.Context) {
	var req model.Director
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.directorService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, d)
}

// UpdateDirector
// @Summary 更新导演
// @Tags 导演
// @Accept json
// @Produce json
// @Param request body model.Director true "导演（含 id）"
// @Success 200 {object} response.Response{data=model.Director}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /directors [put]
func (h *Handler) UpdateDirector(c *gin.Context) {
	var req model.Director
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	d, err := h.directorService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

// GetDirector
// @Summary 查询导演
// @Tags 导演
// @Produce json
// @Param id path int true "导演ID"
// @Success 200 {object} response.Response{data=model.Director}
// @Failure 404 {object} response.Response
// @Router /directors/{id} [get]
func (h *Handler) GetDirector(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.directorService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

// ListDirectors
// @Summary 导演列表
// @Tags 导演
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Director}
// @Router /directors [get]
func (h *Handler) ListDirectors(c *gin.Context) {
	list, err := h.directorService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteDirector
// @Summary 删除导演
// @Tags 导演
// @Param id path int true "导演ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /directors/{id} [delete]
func (h *Handler) DeleteDirector(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.directorService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
