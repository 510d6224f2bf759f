package handler

import (
	"net/http"
	"strconv"

	"community-mod/internal/middleware"
	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc *service.MemberService
}

type RoleReq struct {
	Role string `json:"role"`
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func memberID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperr.Validation("invalid member id"))
		return 0, false
	}
	return id, true
}

// Ban 响应带生效范围，调用方可以看到这次封禁是否波及其他社区
func (h *MemberHandler) Ban(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	result, err := h.svc.Ban(c.Request.Context(), middleware.Member(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MemberHandler) AddAuthority(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	var req RoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("invalid params"))
		return
	}
	role, valid := model.ParseRole(req.Role)
	if !valid {
		fail(c, apperr.Validation("unknown role"))
		return
	}

	m, err := h.svc.AddAuthority(c.Request.Context(), middleware.Member(c), id, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": m.ID, "role": m.Role.String()})
}

func (h *MemberHandler) RemoveAuthority(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}
	m, err := h.svc.RemoveAuthority(c.Request.Context(), middleware.Member(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": m.ID, "role": m.Role.String()})
}
