package router

import (
	"community-mod/internal/handler"
	"community-mod/internal/middleware"
	"community-mod/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Community *handler.CommunityHandler
	Post      *handler.PostHandler
	Rule      *handler.RuleHandler
	Member    *handler.MemberHandler
}

func InitRouter(auth gin.HandlerFunc, authz *service.AuthzService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 社区级接口：只需要登录态
	communityGroup := r.Group("/api/community")
	communityGroup.Use(auth)
	{
		communityGroup.POST("", h.Community.Create)
		communityGroup.GET("/list", h.Community.List)
		communityGroup.POST("/:community_id/join", h.Community.Join)
		communityGroup.POST("/:community_id/leave", h.Community.Leave)
	}

	// 审核类接口：登录态 + 社区内成员身份
	modGroup := r.Group("/api/community/:community_id")
	modGroup.Use(auth, middleware.Membership(authz))
	{
		modGroup.POST("/post", h.Post.Create)
		modGroup.POST("/post/:id/approve", h.Post.Approve)
		modGroup.DELETE("/post/:id/reject", h.Post.Reject)
		modGroup.POST("/post/:id/visibility", h.Post.ToggleVisibility)
		modGroup.DELETE("/post/:id", h.Post.Delete)

		modGroup.GET("/rule", h.Rule.List)
		modGroup.POST("/rule", h.Rule.Create)
		modGroup.DELETE("/rule/:id", h.Rule.Delete)
		modGroup.PUT("/rule/order", h.Rule.Reorder)

		modGroup.POST("/member/:id/ban", h.Member.Ban)
		modGroup.POST("/member/:id/role", h.Member.AddAuthority)
		modGroup.DELETE("/member/:id/role", h.Member.RemoveAuthority)
	}

	return r
}
