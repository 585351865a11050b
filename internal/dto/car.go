package dto

type CreateCarRequest struct {
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	LicensePlate string `json:"licensePlate" binding:"required"`
}

// UpdateCarRequest is a partial update; absent fields keep their value.
type UpdateCarRequest struct {
	Brand        *string `json:"brand" binding:"omitempty"`
	Model        *string `json:"model" binding:"omitempty"`
	LicensePlate *string `json:"licensePlate" binding:"omitempty"`
}

type CarResponse struct {
	ID           uint   `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
}
