package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"metawards-uq/internal/jobfile"
	"metawards-uq/internal/service"
)

type DesignHandler struct {
	designs *service.DesignService
}

func NewDesignHandler(designs *service.DesignService) *DesignHandler {
	return &DesignHandler{designs: designs}
}

// CreateDesign generates and stores a design from a job description.
func (h *DesignHandler) CreateDesign(c *gin.Context) {
	var req struct {
		Job     json.RawMessage `json:"job" binding:"required"`
		Samples int             `json:"samples"`
		Seed    *int64          `json:"seed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := jobfile.Parse(req.Job, jobfile.FormatJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.designs.Create(c.Request.Context(), service.DesignRequest{Job: *job, Samples: req.Samples, Seed: req.Seed})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidJob) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"design": result,
	})
}

// ListDesigns lists stored designs, newest first.
func (h *DesignHandler) ListDesigns(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}

	designs, err := h.designs.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"designs": designs,
	})
}

// GetDesign returns one design record.
func (h *DesignHandler) GetDesign(c *gin.Context) {
	rec, err := h.designs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"design": rec,
	})
}

// GetDesignCSV returns the design matrix as CSV.
func (h *DesignHandler) GetDesignCSV(c *gin.Context) {
	rec, err := h.designs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(rec.Matrix))
}

// DeleteDesign removes a design.
func (h *DesignHandler) DeleteDesign(c *gin.Context) {
	if err := h.designs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "deleted",
	})
}

func writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDesignNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "design not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
