package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"AplusBackend/internal/apperr"
	"AplusBackend/internal/domain"
)

type createStudyPlanRequest struct {
	PlanName        string `json:"plan_name" binding:"required"`
	PlanDescription string `json:"plan_description"`
}

func (s *Server) handleCreateStudyPlan(c *gin.Context) {
	if s.plans == nil {
		s.writeError(c, apperr.Unavailable("database is not available"))
		return
	}

	var body createStudyPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, apperr.Invalid(err.Error()))
		return
	}
	name := strings.TrimSpace(body.PlanName)
	if name == "" {
		s.writeError(c, apperr.Invalid("plan_name: field required"))
		return
	}

	plan, err := s.plans.Create(c.Request.Context(), domain.StudyPlanDraft{
		Name:        name,
		Description: body.PlanDescription,
	})
	if err != nil {
		s.writeError(c, apperr.Internal("Failed to create study plan", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  domain.StatusSuccess,
		"message": "Study plan created successfully",
		"plan":    newPlanView(plan),
	})
}

func (s *Server) handleListStudyPlans(c *gin.Context) {
	if s.plans == nil {
		s.writeError(c, apperr.Unavailable("database is not available"))
		return
	}

	plans, err := s.plans.List(c.Request.Context())
	if err != nil {
		s.writeError(c, apperr.Internal("Failed to fetch study plans", err))
		return
	}

	views := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, newPlanView(plan))
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusSuccess, "plans": views})
}
