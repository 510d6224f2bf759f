package handler

import (
	"net/http"
	"strconv"

	"community-mod/internal/middleware"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/repository/mysql"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	svc *service.RuleService
}

type CreateRuleReq struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ReorderReq struct {
	Rules []struct {
		ID    uint64 `json:"id"`
		Title string `json:"title"`
		Order int    `json:"order"`
	} `json:"rules"`
}

func NewRuleHandler(svc *service.RuleService) *RuleHandler {
	return &RuleHandler{svc: svc}
}

func (h *RuleHandler) Create(c *gin.Context) {
	var req CreateRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("invalid params"))
		return
	}

	rule, err := h.svc.Create(c.Request.Context(), middleware.Member(c), req.Title, req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rule.ID, "title": rule.Title, "order": rule.Order})
}

func (h *RuleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperr.Validation("invalid rule id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Member(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "msg": "deleted"})
}

func (h *RuleHandler) Reorder(c *gin.Context) {
	var req ReorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("invalid params"))
		return
	}

	items := make([]mysql.ReorderItem, 0, len(req.Rules))
	for _, r := range req.Rules {
		items = append(items, mysql.ReorderItem{ID: r.ID, Title: r.Title, Order: r.Order})
	}

	rules, err := h.svc.Reorder(c.Request.Context(), middleware.Member(c), items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *RuleHandler) List(c *gin.Context) {
	m := middleware.Member(c)
	rules, err := h.svc.List(c.Request.Context(), m.CommunityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}
