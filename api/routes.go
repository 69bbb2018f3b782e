package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("AUMAI_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("AUMAI_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set AUMAI_API_KEY or set AUMAI_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)

	api.GET("/datasets", s.handleSearchDatasets)
	api.GET("/datasets/:id", s.handleGetDataset)
	api.POST("/datasets", s.handleRegisterDataset)
	api.POST("/datasets/:id/download", s.handleDownloadDataset)

	api.POST("/evaluations", s.handleEvaluate)
	api.GET("/evaluations/:id", s.handleGetEvaluations)

	api.GET("/leaderboard", s.handleGetLeaderboard)
	api.GET("/leaderboard/history", s.handleGetModelHistory)

	return nil
}
