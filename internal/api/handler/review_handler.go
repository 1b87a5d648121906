package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/response"
)

// CreateReview
// @Summary 发表影评
// @Tags 影评
// @Accept json
// @Produce json
// @Param request body model.Review true "影评"
// @Success 201 {object} response.Response{data=model.Review}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req model.Review
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	rv, err := h.reviewService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rv)
}

// UpdateReview 只修改内容与正负面
// @Summary 修改影评
// @Tags 影评
// @Accept json
// @Produce json
// @Param request body model.Review true "影评（含 reviewId）"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	var req model.Review
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	rv, err := h.reviewService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rv)
}

// GetReview
// @Summary 查询影评
// @Tags 影评
// @Produce json
// @Param id path int true "影评ID"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 404 {object} response.Response
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rv, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rv)
}

// ListReviews 按有用度降序
// @Summary 影评列表
// @Tags 影评
// @Produce json
// @Param filmId query int false "电影ID"
// @Param count query int false "数量" default(10)
// @Success 200 {object} response.Response{data=[]model.Review}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	filmID, ok := queryInt64(c, "filmId")
	if !ok {
		return
	}
	count, ok := queryInt(c, "count")
	if !ok {
		return
	}
	var fid int64
	if filmID != nil {
		fid = *filmID
	}
	list, err := h.reviewService.List(c.Request.Context(), fid, count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteReview
// @Summary 删除影评
// @Tags 影评
// @Param id path int true "影评ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) reviewUserIDs(c *gin.Context) (int64, int64, bool) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return 0, 0, false
	}
	return reviewID, userID, true
}

// LikeReview
// @Summary 影评有用
// @Tags 影评
// @Param id path int true "影评ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews/{id}/like/{userId} [put]
func (h *Handler) LikeReview(c *gin.Context) {
	reviewID, userID, ok := h.reviewUserIDs(c)
	if !ok {
		return
	}
	if err := h.reviewService.AddReviewLike(c.Request.Context(), reviewID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DislikeReview
// @Summary 影评无用
// @Tags 影评
// @Param id path int true "影评ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews/{id}/dislike/{userId} [put]
func (h *Handler) DislikeReview(c *gin.Context) {
	reviewID, userID, ok := h.reviewUserIDs(c)
	if !ok {
		return
	}
	if err := h.reviewService.AddReviewDislike(c.Request.Context(), reviewID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteReviewRating like 与 dislike 的删除路由都撤销该用户的评分
// @Summary 撤销影评评分
// @Tags 影评
// @Param id path int true "影评ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews/{id}/like/{userId} [delete]
// @Router /reviews/{id}/dislike/{userId} [delete]
func (h *Handler) DeleteReviewRating(c *gin.Context) {
	reviewID, userID, ok := h.reviewUserIDs(c)
	if !ok {
		return
	}
	if err := h.reviewService.DeleteReviewRating(c.Request.Context(), reviewID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
