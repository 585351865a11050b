package router

import "github.com/gin-gonic/gin"

func (r *Router) reportRoutes(version *gin.RouterGroup) {
	reports := version.Group("/reports")
	{
		// All report routes require JWT authentication
		reports.Use(r.jwtMw.RequireAuth())
		{
			reports.POST("/upload", r.reportHandler.CreateReport)
			reports.GET("/my-cars", r.reportHandler.MyCarReports)
			reports.GET("/search-by-plate", r.reportHandler.SearchByPlate)
			reports.GET("/recent", r.reportHandler.Recent)
			reports.DELETE("/:id", r.reportHandler.DeleteReport)
		}
	}
}
