package handler

import (
	"net/http"
	"strconv"

	"community-mod/internal/middleware"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func communityID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperr.Validation("invalid community id"))
		return 0, false
	}
	return id, true
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("invalid params"))
		return
	}

	community, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}
	m, err := h.svc.Join(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": m.ID, "role": m.Role.String()})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), middleware.UserID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
