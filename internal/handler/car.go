package handler

import (
	"net/http"
	"strconv"

	"github.com/platewatch/api/internal/constants"
	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/middleware"
	"github.com/platewatch/api/internal/service"
	"github.com/platewatch/api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CarHandler struct {
	carService *service.CarService
}

func NewCarHandler(carService *service.CarService) *CarHandler {
	return &CarHandler{
		carService: carService,
	}
}

// ListCars returns the caller's registered cars
func (h *CarHandler) ListCars(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	cars, err := h.carService.ListCars(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to list cars", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, cars)
}

// CreateCar registers a new car for the caller
func (h *CarHandler) CreateCar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	var req dto.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	car, err := h.carService.AddCar(c.Request.Context(), userID, &req)
	if err != nil {
		logger.GetLogger().Warn("Car registration failed",
			zap.Uint("user_id", userID),
			zap.String("license_plate", req.LicensePlate),
			zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to register car", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, car)
}

// UpdateCar edits one of the caller's cars
func (h *CarHandler) UpdateCar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	carID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid car id", err.Error()))
		return
	}

	var req dto.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", err.Error()))
		return
	}

	car, err := h.carService.UpdateCar(c.Request.Context(), userID, carID, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update car", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, car)
}

// DeleteCar removes one of the caller's cars
func (h *CarHandler) DeleteCar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	carID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid car id", err.Error()))
		return
	}

	if err := h.carService.DeleteCar(c.Request.Context(), userID, carID); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete car", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Car deleted"))
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
