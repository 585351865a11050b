package router

import "github.com/gin-gonic/gin"

func (r *Router) carRoutes(version *gin.RouterGroup) {
	cars := version.Group("/cars")
	{
		// All car routes require JWT authentication
		cars.Use(r.jwtMw.RequireAuth())
		{
			cars.GET("", r.carHandler.ListCars)
			cars.POST("", r.carHandler.CreateCar)
			cars.PATCH("/:id", r.carHandler.UpdateCar)
			cars.DELETE("/:id", r.carHandler.DeleteCar)
		}
	}
}
