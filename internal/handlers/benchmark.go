package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/mtakagi/body-tracker-api/internal/errors"
	"github.com/mtakagi/body-tracker-api/internal/middleware"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

// BenchmarkHandler manages the acting user's benchmark pointer.
type BenchmarkHandler struct {
	benchmarkService *services.BenchmarkService
}

// NewBenchmarkHandler creates a new BenchmarkHandler.
func NewBenchmarkHandler(benchmarkService *services.BenchmarkService) *BenchmarkHandler {
	return &BenchmarkHandler{
		benchmarkService: benchmarkService,
	}
}

// Set points the benchmark at one of the acting user's own measurements.
func (h *BenchmarkHandler) Set(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	measurementID, err := parseIDParam(c, "measurement_id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid measurement ID")
		return
	}

	if err := h.benchmarkService.Set(identity, measurementID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Benchmark set",
	})
}

// Clear removes the benchmark pointer. Idempotent.
func (h *BenchmarkHandler) Clear(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.benchmarkService.Clear(identity); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Benchmark cleared",
	})
}
