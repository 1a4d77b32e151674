package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tkaric/postgen/internal/config"
	"github.com/tkaric/postgen/pkg/client"
	"github.com/tkaric/postgen/pkg/generator"
	"github.com/tkaric/postgen/pkg/payload"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Handler struct {
	gen *generator.Generator
	cfg *config.Config
	log *zap.Logger
}

func NewHandler(gen *generator.Generator, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		gen: gen,
		cfg: cfg,
		log: log,
	}
}

// GeneratePost accepts a multipart form with an "image" file, runs the
// generator against it and returns the post as JSON. Nothing about the
// upload is kept after the response is written.
func (h *Handler) GeneratePost(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if file.Size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format. Only JPG, PNG and WebP allowed"})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	img, mimeType, err := payload.Decode(data, file.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode image: " + err.Error()})
		return
	}

	post, err := h.gen.GenerateFromImage(c.Request.Context(), img)
	if err != nil {
		status, msg := classifyError(err)
		h.log.Error("Generation failed",
			zap.String("filename", file.Filename),
			zap.String("mime_type", mimeType),
			zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.log.Info("Post generated",
		zap.String("filename", file.Filename),
		zap.String("mime_type", mimeType),
		zap.Int64("size", file.Size),
		zap.Int("hashtags", len(post.Hashtags)))

	resp := gin.H{
		"content":  post.Content,
		"hashtags": post.Hashtags,
	}

	// Preview echo is best effort; the post still renders without it.
	if preview, err := payload.PreviewWebP(img, h.cfg.App.PreviewSide, float32(h.cfg.App.PreviewQuality)); err == nil {
		resp["preview"] = preview
	} else {
		h.log.Warn("Preview encoding failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Platform": h.cfg.LLM.Platform,
	})
}

// classifyError maps generator error classes to a status code and a message
// safe to show the user.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, client.ErrAuth):
		return http.StatusBadGateway, "The inference service rejected our credentials. Check the API key configuration."
	case errors.Is(err, client.ErrUnavailable):
		return http.StatusBadGateway, "The inference service is unreachable. Please try again later."
	case errors.Is(err, client.ErrBadResponse):
		return http.StatusBadGateway, "The inference service returned an unexpected response."
	default:
		return http.StatusInternalServerError, "Failed to generate post"
	}
}
