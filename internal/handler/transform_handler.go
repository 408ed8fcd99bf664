package handler

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"metawards-uq/internal/epi"
)

type TransformHandler struct{}

func NewTransformHandler() *TransformHandler {
	return &TransformHandler{}
}

// Transform converts epidemiological quantities into disease parameters.
func (h *TransformHandler) Transform(c *gin.Context) {
	var req struct {
		Incubation float64  `json:"incubation" binding:"required"`
		Infectious float64  `json:"infectious" binding:"required"`
		RZero      *float64 `json:"r_zero" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := epi.ToDisease(req.Incubation, req.Infectious, *req.RZero)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// NaN is not valid JSON
	var doubling *float64
	if !math.IsNaN(d.DoublingTime) && !math.IsInf(d.DoublingTime, 0) {
		doubling = &d.DoublingTime
	}
	c.JSON(http.StatusOK, gin.H{
		"header":        epi.DiseaseHeader,
		"values":        d.Values(),
		"doubling_time": doubling,
	})
}

// Fingerprint returns the run folder key for a value vector.
func (h *TransformHandler) Fingerprint(c *gin.Context) {
	var req struct {
		Values    []float64 `json:"values"`
		Index     int       `json:"index"`
		WithIndex bool      `json:"with_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fingerprint": epi.Fingerprint(req.Values, req.Index, req.WithIndex),
	})
}
