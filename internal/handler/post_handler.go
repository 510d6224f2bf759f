package handler

import (
	"net/http"
	"strconv"

	"community-mod/internal/middleware"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func postID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperr.Validation("invalid post id"))
		return 0, false
	}
	return id, true
}

// Create 新帖进入待审队列
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("invalid params"))
		return
	}

	post, err := h.svc.Create(c.Request.Context(), middleware.Member(c), req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "state": post.State})
}

func (h *PostHandler) Approve(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	post, err := h.svc.Approve(c.Request.Context(), middleware.Member(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "state": post.State})
}

func (h *PostHandler) Reject(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.svc.Reject(c.Request.Context(), middleware.Member(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "msg": "rejected"})
}

func (h *PostHandler) ToggleVisibility(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	state, err := h.svc.ToggleVisibility(c.Request.Context(), middleware.Member(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "state": state})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Member(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "msg": "deleted"})
}
