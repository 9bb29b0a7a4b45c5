package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mtakagi/body-tracker-api/internal/dto"
	apierrors "github.com/mtakagi/body-tracker-api/internal/errors"
	"github.com/mtakagi/body-tracker-api/internal/middleware"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
	"github.com/mtakagi/body-tracker-api/internal/utils"
)

// MeasurementHandler coordinates measurement HTTP handlers. There is no
// update route: corrections are delete-and-recreate.
type MeasurementHandler struct {
	measurementService *services.MeasurementService
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(measurementService *services.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{
		measurementService: measurementService,
	}
}

// ListForUser returns a user's measurement history ordered by
// (timestamp, id). Defaults to descending, newest first; ?order=asc flips it
// for trend charts. Without pagination params the full history is returned.
func (h *MeasurementHandler) ListForUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	order := repository.SortDesc
	switch c.DefaultQuery("order", "desc") {
	case "asc":
		order = repository.SortAsc
	case "desc":
	default:
		apierrors.BadRequest(c, "order must be asc or desc")
		return
	}

	input := services.ListInput{Order: order}
	params, paginated := utils.GetPaginationParams(c)
	if paginated {
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	measurements, total, err := h.measurementService.List(identity, targetUserID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{
		"measurements": dto.ToMeasurementDTOs(measurements),
		"total":        total,
	}
	if paginated {
		response["pagination"] = utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		}
	}

	c.JSON(http.StatusOK, response)
}

// CreateForUser records a measurement for the target user. The owner records
// their own; admins may record on anyone's behalf and may back-date via the
// timestamp field.
func (h *MeasurementHandler) CreateForUser(c *gin.Context) {
	type CreateMeasurementRequest struct {
		Timestamp *time.Time `json:"timestamp"`

		Weight             *float64 `json:"weight"`
		BMI                *float64 `json:"bmi"`
		BodyFatPercentage  *float64 `json:"body_fat_percentage"`
		VisceralFatIndex   *float64 `json:"visceral_fat_index"`
		LeanMassPercentage *float64 `json:"lean_mass_percentage"`

		WaistCircumference *float64 `json:"waist_circumference"`
		HipCircumference   *float64 `json:"hip_circumference"`
		BicepCircumference *float64 `json:"bicep_circumference"`
		ThighCircumference *float64 `json:"thigh_circumference"`
		ChestCircumference *float64 `json:"chest_circumference"`
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	measurement, err := h.measurementService.Create(identity, targetUserID, services.CreateMeasurementInput{
		Timestamp:          req.Timestamp,
		Weight:             req.Weight,
		BMI:                req.BMI,
		BodyFatPercentage:  req.BodyFatPercentage,
		VisceralFatIndex:   req.VisceralFatIndex,
		LeanMassPercentage: req.LeanMassPercentage,
		WaistCircumference: req.WaistCircumference,
		HipCircumference:   req.HipCircumference,
		BicepCircumference: req.BicepCircumference,
		ThighCircumference: req.ThighCircumference,
		ChestCircumference: req.ChestCircumference,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMeasurementDTO(*measurement))
}

// Get returns a single measurement visible to the acting identity.
func (h *MeasurementHandler) Get(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	measurementID, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid measurement ID")
		return
	}

	measurement, err := h.measurementService.Get(identity, measurementID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeasurementDTO(*measurement))
}

// Delete removes a measurement. When the deleted row was the owner's
// benchmark, the pointer is cleared with it.
func (h *MeasurementHandler) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	measurementID, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid measurement ID")
		return
	}

	if err := h.measurementService.Delete(identity, measurementID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Measurement deleted successfully",
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
