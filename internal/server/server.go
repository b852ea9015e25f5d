// Package server exposes the twin over HTTP.
package server

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/rcliao/twin-memory/internal/agent"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves one Agent.
type Server struct {
	agent  *agent.Agent
	logger *log.Logger
	app    *fiber.App
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges a mutation.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// New wires the routes for a.
func New(a *agent.Agent, logger *log.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{agent: a, logger: logger, app: app}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(s.requestID)

	app.Get("/", s.handleRoot)
	app.Post("/chat", s.handleChat)
	app.Post("/chat/stream", s.handleChatStream)
	app.Get("/profile", s.handleGetProfile)
	app.Post("/profile/update", s.handleUpdateProfile)
	app.Post("/profile/interest/add", s.handleAddInterest)
	app.Post("/profile/trait/update", s.handleUpdateTrait)
	app.Get("/summary", s.handleSummary)
	app.Get("/stats", s.handleStats)
	app.Get("/memories/search", s.handleSearch)
	app.Get("/memories/recent", s.handleRecent)
	app.Post("/conversation/reset", s.handleReset)
	app.Post("/save", s.handleSave)

	return s
}

// Run listens on addr until Shutdown.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", "listen", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and saves the agent state.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	if saveErr := s.agent.Save(); saveErr != nil {
		s.logger.Error("save on shutdown failed", "err", saveErr)
		return errors.Join(err, saveErr)
	}
	s.logger.Info("state saved")
	return err
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(RequestIDHeader, id)
	c.Locals("request_id", id)

	err := c.Next()
	s.logger.Debug("request",
		"id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode())
	return err
}

// errorHandler maps provider failures to 502 and everything else that is
// not already a *fiber.Error to 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	var pf *agent.ProviderFailure
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &pf):
		code = fiber.StatusBadGateway
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
