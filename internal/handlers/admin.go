package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mtakagi/body-tracker-api/internal/dto"
	apierrors "github.com/mtakagi/body-tracker-api/internal/errors"
	"github.com/mtakagi/body-tracker-api/internal/importer"
	"github.com/mtakagi/body-tracker-api/internal/middleware"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

// AdminHandler covers the account-lifecycle routes and bulk import.
type AdminHandler struct {
	accountService     *services.AccountService
	measurementService *services.MeasurementService
	importService      *importer.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *services.AccountService, measurementService *services.MeasurementService, importService *importer.Service) *AdminHandler {
	return &AdminHandler{
		accountService:     accountService,
		measurementService: measurementService,
		importService:      importService,
	}
}

// ListUsers returns every account.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	users, err := h.accountService.List(identity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// CreateUser registers a new account.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username        string `json:"username" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
		IsAdmin         bool   `json:"is_admin"`
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.accountService.Create(identity, services.CreateUserInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		IsAdmin:         req.IsAdmin,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// GetUser returns one account together with its measurement history, for the
// admin detail view.
func (h *AdminHandler) GetUser(c *gin.Context) {
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

	user, err := h.accountService.Get(identity, targetUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	measurements, _, err := h.measurementService.List(identity, targetUserID, services.ListInput{
		Order: repository.SortDesc,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         dto.ToUserDTO(*user),
		"measurements": dto.ToMeasurementDTOs(measurements),
	})
}

// DeleteUser removes an account and its measurements. Self-deletion is
// always refused.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
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

	if err := h.accountService.Delete(identity, targetUserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// PromoteUser grants the admin role.
func (h *AdminHandler) PromoteUser(c *gin.Context) {
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

	if err := h.accountService.Promote(identity, targetUserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User promoted to admin",
	})
}

// ImportMeasurements bulk-loads a CSV file for the target user. Row failures
// are collected into the summary instead of aborting the batch.
func (h *AdminHandler) ImportMeasurements(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "CSV file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	summary, err := h.importService.Import(identity, targetUserID, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
