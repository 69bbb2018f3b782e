package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aumai/alignment/internal/evaluation"
	"github.com/aumai/alignment/internal/marketplace"
)

type evaluateRequest struct {
	DatasetID string              `json:"dataset_id" binding:"required"`
	ModelName string              `json:"model_name"`
	Outputs   []evaluation.Output `json:"outputs"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSearchDatasets(c *gin.Context) {
	if s == nil || s.registry == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	minQuality, err := parseFloatParam(c.Query("min_quality"), 0.0)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	listings := s.registry.Search(c.Query("query"), strings.TrimSpace(c.Query("category")), minQuality)
	c.JSON(http.StatusOK, listings)
}

func (s *Server) handleGetDataset(c *gin.Context) {
	if s == nil || s.registry == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	dataset, err := s.registry.Get(id)
	if err != nil {
		var notFound *marketplace.NotFoundError
		if errors.As(err, &notFound) {
			respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, dataset)
}

func (s *Server) handleRegisterDataset(c *gin.Context) {
	if s == nil || s.registry == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	var d marketplace.Dataset
	if err := c.ShouldBindJSON(&d); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := marketplace.Validate(&d); err != nil {
		var invalid *marketplace.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "invalid dataset",
				"fields": invalid.Fields,
			})
			return
		}
		respondError(c, http.StatusBadRequest, err)
		return
	}

	s.registry.Register(d)
	c.JSON(http.StatusCreated, d)
}

func (s *Server) handleDownloadDataset(c *gin.Context) {
	if s == nil || s.registry == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	// Unknown ids are a silent no-op, like the registry operation itself.
	s.registry.IncrementDownloads(strings.TrimSpace(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	if s == nil || s.runner == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Evaluate(c.Request.Context(), req.DatasetID, req.Outputs, strings.TrimSpace(req.ModelName))
	if err != nil {
		var notFound *marketplace.NotFoundError
		if errors.As(err, &notFound) {
			respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", req.DatasetID))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	if s.archive != nil {
		if err := s.archive.Save(c.Request.Context(), result); err != nil {
			// The in-memory history already holds the result; archiving is
			// best effort.
			_ = c.Error(err)
		}
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleGetEvaluations(c *gin.Context) {
	if s == nil || s.registry == nil || s.runner == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.registry.Get(id); err != nil {
		var notFound *marketplace.NotFoundError
		if errors.As(err, &notFound) {
			respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, s.runner.Results(id))
}

func (s *Server) handleGetLeaderboard(c *gin.Context) {
	if s == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}
	if s.archive == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("archive disabled"))
		return
	}

	dataset := strings.TrimSpace(c.Query("dataset"))
	if dataset == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing dataset"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	entries, err := s.archive.Leaderboard(c.Request.Context(), dataset, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGetModelHistory(c *gin.Context) {
	if s == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}
	if s.archive == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("archive disabled"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	dataset := strings.TrimSpace(c.Query("dataset"))
	if model == "" || dataset == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing model or dataset"))
		return
	}

	entries, err := s.archive.ModelHistory(c.Request.Context(), model, dataset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("limit must be > 0")
	}
	return v, nil
}

func parseFloatParam(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid min_quality %q", raw)
	}
	return v, nil
}
