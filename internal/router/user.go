package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	user := version.Group("/user")
	{
		// All user routes require JWT authentication
		user.Use(r.jwtMw.RequireAuth())
		{
			user.GET("/profile", r.userHandler.GetProfile)
		}
	}
}
