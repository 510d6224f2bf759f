package middleware

import (
	"net/http"
	"strconv"

	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextMemberKey = "member"

// Membership 审核操作的第一道闸门：把调用者解析为该社区的在籍成员，
// 角色随成员记录挂到请求上下文，后续 handler 只比较角色
func Membership(authz *service.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		communityID, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
		if err != nil || communityID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
			return
		}

		member, rerr := authz.Resolve(c.Request.Context(), communityID, UserID(c))
		if rerr != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(rerr), gin.H{"msg": rerr.Error()})
			return
		}

		c.Set(ContextMemberKey, member)
		c.Next()
	}
}

// Member 取 Membership 注入的成员记录
func Member(c *gin.Context) *model.Member {
	v, _ := c.Get(ContextMemberKey)
	m, _ := v.(*model.Member)
	return m
}
