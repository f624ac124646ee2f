package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"AplusBackend/internal/apperr"
	"AplusBackend/internal/domain"
)

func (s *Server) handleTriggerWorkflow(c *gin.Context) {
	if s.pipeline == nil {
		s.writeError(c, apperr.Unavailable("ingestion pipeline is not available"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.writeError(c, apperr.Internal("Failed to trigger workflow", err))
		return
	}

	rawPlanID, ok := c.GetPostForm("plan_id")
	if !ok {
		s.writeError(c, apperr.Invalid("plan_id: field required"))
		return
	}
	planID, err := strconv.ParseInt(strings.TrimSpace(rawPlanID), 10, 64)
	if err != nil {
		s.writeError(c, apperr.Invalid("plan_id: value is not a valid integer"))
		return
	}

	links, ok := c.GetPostForm("links")
	if !ok {
		links = "[]"
	}

	var uploads []domain.Upload
	if form != nil {
		uploads, err = readUploads(form.File["files"])
		if err != nil {
			s.writeError(c, apperr.Internal("Failed to trigger workflow", err))
			return
		}
	}

	res, err := s.pipeline.Run(c.Request.Context(), domain.IngestionRequest{
		PlanID:    planID,
		LinksJSON: links,
		Uploads:   uploads,
	})
	if err != nil {
		s.writeError(c, apperr.Internal("Failed to trigger workflow", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  domain.StatusSuccess,
		"message": "Workflow triggered successfully",
		"data":    NewWorkflowData(res),
	})
}

func readUploads(headers []*multipart.FileHeader) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
