package httpapi

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"AplusBackend/internal/apperr"
	"AplusBackend/internal/domain"
)

const (
	defaultInferenceSteps    = 4
	defaultMaxSequenceLength = 256
)

func (s *Server) handleGenerateImage(c *gin.Context) {
	if s.images == nil {
		s.writeError(c, apperr.Unavailable("image generation backend is not available"))
		return
	}

	req, err := parseImageRequest(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	image, err := s.images.Generate(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, apperr.Internal("Failed to generate image", err))
		return
	}

	filename := uuid.NewString() + ".png"
	if s.imageDisk != nil {
		if _, err := s.imageDisk.Write(filename, image); err != nil {
			s.writeError(c, apperr.Internal("Failed to generate image", err))
			return
		}
	}

	var storageURL string
	if s.imageStore != nil {
		key := filename
		if space := strings.Trim(strings.TrimSpace(c.PostForm("space_id")), "/"); space != "" {
			key = space + "/" + filename
		}
		url, err := s.imageStore.Put(c.Request.Context(), key, image, "image/png")
		if err != nil {
			s.logger.Warn("image upload skipped", "key", key, "err", err)
		} else {
			storageURL = url
		}
	}

	c.Writer.Header().Set("X-Storage-URL", storageURL)
	c.Header("X-Seed", strconv.FormatInt(req.Seed, 10))
	c.Data(http.StatusOK, "image/png", image)
}

func parseImageRequest(c *gin.Context) (domain.ImageRequest, error) {
	req := domain.ImageRequest{
		Prompt:            strings.TrimSpace(c.PostForm("prompt")),
		InferenceSteps:    defaultInferenceSteps,
		MaxSequenceLength: defaultMaxSequenceLength,
	}
	if req.Prompt == "" {
		return req, apperr.Invalid("prompt: field required")
	}

	if v := c.PostForm("guidance_scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, apperr.Invalid("guidance_scale: value is not a valid float")
		}
		req.GuidanceScale = f
	}
	if v := c.PostForm("num_inference_steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, apperr.Invalid("num_inference_steps: value is not a valid positive integer")
		}
		req.InferenceSteps = n
	}
	if v := c.PostForm("max_sequence_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, apperr.Invalid("max_sequence_length: value is not a valid positive integer")
		}
		req.MaxSequenceLength = n
	}

	if v := c.PostForm("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, apperr.Invalid("seed: value is not a valid integer")
		}
		req.Seed = seed
	} else {
		req.Seed = int64(rand.Uint32())
	}

	return req, nil
}
