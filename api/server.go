package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aumai/alignment/internal/archive"
	"github.com/aumai/alignment/internal/config"
	"github.com/aumai/alignment/internal/evaluation"
	"github.com/aumai/alignment/internal/marketplace"
)

type Server struct {
	router   *gin.Engine
	registry *marketplace.Registry
	runner   *evaluation.Runner
	archive  *archive.Store
	config   *config.Config
}

func NewServer(cfg *config.Config, registry *marketplace.Registry, runner *evaluation.Runner, arc *archive.Store) (*Server, error) {
	if registry == nil {
		return nil, errors.New("api: nil registry")
	}
	if runner == nil {
		return nil, errors.New("api: nil runner")
	}

	r := gin.New()
	s := &Server{
		router:   r,
		registry: registry,
		runner:   runner,
		archive:  arc,
		config:   cfg,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
