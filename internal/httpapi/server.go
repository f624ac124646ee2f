package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"AplusBackend/internal/apperr"
	"AplusBackend/internal/domain"
	"AplusBackend/internal/ports"
)

const defaultMaxMultipartMemory = 32 << 20

// Pipeline runs one ingestion request.
type Pipeline interface {
	Run(ctx context.Context, req domain.IngestionRequest) (domain.AggregateResult, error)
}

// Deps lists the collaborators of the HTTP surface. Nil entries make their
// endpoints answer 503.
type Deps struct {
	Pipeline   Pipeline
	Plans      ports.StudyPlanRepository
	Images     ports.ImageGenerator
	ImageStore ports.ObjectPutter
	ImageDisk  ports.FileWriter
	Logger     *slog.Logger

	MaxMultipartMemory int64
	AllowedOrigins     []string
}

// Server holds the state for the REST API.
type Server struct {
	pipeline   Pipeline
	plans      ports.StudyPlanRepository
	images     ports.ImageGenerator
	imageStore ports.ObjectPutter
	imageDisk  ports.FileWriter
	logger     *slog.Logger
	router     *gin.Engine
}

// NewServer creates the gin engine and registers all routes.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	r := gin.New()
	r.MaxMultipartMemory = deps.MaxMultipartMemory
	if r.MaxMultipartMemory <= 0 {
		r.MaxMultipartMemory = defaultMaxMultipartMemory
	}
	r.Use(gin.Recovery(), requestLogger(logger), cors(deps.AllowedOrigins))

	s := &Server{
		pipeline:   deps.Pipeline,
		plans:      deps.Plans,
		images:     deps.Images,
		imageStore: deps.ImageStore,
		imageDisk:  deps.ImageDisk,
		logger:     logger,
		router:     r,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/generate-image", s.handleGenerateImage)
	s.router.POST("/create-study-plan", s.handleCreateStudyPlan)
	s.router.GET("/get-study-plans", s.handleListStudyPlans)
	s.router.POST("/trigger-workflow", s.handleTriggerWorkflow)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Aplus API"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// writeError renders err as {"detail": ...} with the mapped status.
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := apperr.MapError(err)
	if appErr.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "status", appErr.Code, "err", err)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"detail": appErr.Error()})
}
