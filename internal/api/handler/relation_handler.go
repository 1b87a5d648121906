package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/pkg/response"
)

// AddFriend 发起好友申请；对方已申请过则直接成为好友
// @Summary 添加好友
// @Tags 好友
// @Param id path int true "用户ID"
// @Param friendId path int true "好友ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/friends/{friendId} [put]
func (h *Handler) AddFriend(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}
	if err := h.friendService.AddFriend(c.Request.Context(), userID, friendID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteFriend 删除好友；互为好友时对方的申请保留为未确认
// @Summary 删除好友
// @Tags 好友
// @Param id path int true "用户ID"
// @Param friendId path int true "好友ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/friends/{friendId} [delete]
func (h *Handler) DeleteFriend(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}
	if err := h.friendService.DeleteFriend(c.Request.Context(), userID, friendID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFriends 已确认的好友
// @Summary 好友列表
// @Tags 好友
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /users/{id}/friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.friendService.GetFriends(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListCommonFriends
// @Summary 共同好友
// @Tags 好友
// @Produce json
// @Param id path int true "用户ID"
// @Param otherId path int true "另一用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /users/{id}/friends/common/{otherId} [get]
func (h *Handler) ListCommonFriends(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	otherID, ok := pathID(c, "otherId")
	if !ok {
		return
	}
	list, err := h.friendService.GetCommonFriends(c.Request.Context(), userID, otherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListFriendRequests 未确认的申请（发出的与收到的）
// @Summary 待确认好友申请
// @Tags 好友
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=model.PendingRequests}
// @Failure 404 {object} response.Response
// @Router /users/{id}/friends/requests [get]
func (h *Handler) ListFriendRequests(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	pending, err := h.friendService.GetFriendRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pending)
}
