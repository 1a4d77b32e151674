package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tkaric/postgen/internal/config"
	"github.com/tkaric/postgen/internal/handler"
	"github.com/tkaric/postgen/pkg/client"
	"github.com/tkaric/postgen/pkg/generator"
	"github.com/tkaric/postgen/pkg/groq"
	"github.com/tkaric/postgen/pkg/ollama"
	"github.com/tkaric/postgen/pkg/types"
)

const defaultOllamaURL = "http://localhost:11434"

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.LoadHTMLGlob("web/templates/*")

	chatClient, err := newChatClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	gen := generator.New(chatClient, generator.Options{
		VisionModel: cfg.LLM.VisionModel,
		TextModel:   cfg.LLM.TextModel,
		Platform:    cfg.LLM.Platform,
		Mode:        cfg.LLM.Mode,
		Payload: types.PayloadOptions{
			MaxLongSide: cfg.App.SendMaxSide,
			Quality:     cfg.App.SendQuality,
		},
	}, log)

	h := handler.NewHandler(gen, cfg, log)

	router.GET("/", h.GetUI)
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/generate", h.GeneratePost)
	}

	router.Static("/static", "./web/static")

	server := &Server{
		httpServer: &http.Server{
			Addr:        cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:     router,
			ReadTimeout: 30 * time.Second,
			// Generation blocks on the remote model; the write timeout
			// must outlast the slowest backend call.
			WriteTimeout:   6 * time.Minute,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.LLM.Backend),
		zap.String("mode", cfg.LLM.Mode))

	return server, nil
}

// newChatClient builds the configured chat backend.
func newChatClient(cfg *config.Config) (client.ChatClient, error) {
	switch cfg.LLM.Backend {
	case config.BackendOllama:
		url := cfg.LLM.BaseURL
		if url == "" {
			url = defaultOllamaURL
		}
		return ollama.NewClient(url)
	default:
		return groq.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey)
	}
}

// requestLogger tags every request with an ID and logs its outcome.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		start := time.Now()
		c.Next()

		log.Info("Request handled",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
