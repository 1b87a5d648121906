package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/pkg/response"
)

// ListGenres
// @Summary 类型列表
// @Tags 字典
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Genre}
// @Router /genres [get]
func (h *Handler) ListGenres(c *gin.Context) {
	list, err := h.catalogService.ListGenres(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetGenre
// @Summary 查询类型
// @Tags 字典
// @Produce json
// @Param id path int true "类型ID"
// @Success 200 {object} response.Response{data=model.Genre}
// @Failure 404 {object} response.Response
// @Router /genres/{id} [get]
func (h *Handler) GetGenre(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	g, err := h.catalogService.GetGenre(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, g)
}

// ListMpa
// @Summary 分级列表
// @Tags 字典
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Mpa}
// @Router /mpa [get]
func (h *Handler) ListMpa(c *gin.Context) {
	list, err := h.catalogService.ListMpa(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetMpa
// @Summary 查询分级
// @Tags 字典
// @Produce json
// @Param id path int true "分级ID"
// @Success 200 {object} response.Response{data=model.Mpa}
// @Failure 404 {object} response.Response
// @Router /mpa/{id} [get]
func (h *Handler) GetMpa(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.catalogService.GetMpa(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}
