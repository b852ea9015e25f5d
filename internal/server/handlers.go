package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/profile"
)

const (
	defaultMaxResults = 5
	defaultDays       = 7
)

// ChatRequest is the body of POST /chat and POST /chat/stream.
type ChatRequest struct {
	Message string       `json:"message"`
	Context model.Fields `json:"context,omitempty"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// InterestRequest is the body of POST /profile/interest/add.
type InterestRequest struct {
	Topic    string   `json:"topic"`
	Level    *float64 `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// TraitRequest is the body of POST /profile/trait/update.
type TraitRequest struct {
	TraitName string   `json:"trait_name"`
	Value     *float64 `json:"value"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Digital twin memory API",
		"version": Version,
		"status":  "running",
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	req, err := parseChat(c)
	if err != nil {
		return err
	}

	reply, err := s.agent.Chat(c.UserContext(), req.Message, req.Context)
	if err != nil {
		return err
	}
	return c.JSON(ChatResponse{Response: reply, Timestamp: time.Now()})
}

// handleChatStream relays the reply as server-sent events: one "token"
// event per fragment, then a final "done" or "error" event.
func (s *Server) handleChatStream(c *fiber.Ctx) error {
	req, err := parseChat(c)
	if err != nil {
		return err
	}

	stream := s.agent.ChatStream(c.UserContext(), req.Message, req.Context)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for tok := range stream.Tokens() {
			writeEvent(w, "token", tok)
		}
		if err := stream.Err(); err != nil {
			writeEvent(w, "error", err.Error())
			return
		}
		writeEvent(w, "done", "")
	})
	return nil
}

func writeEvent(w *bufio.Writer, event, data string) {
	b, _ := json.Marshal(data)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
	_ = w.Flush()
}

func parseChat(c *fiber.Ctx) (ChatRequest, error) {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	return req, nil
}

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	return c.JSON(s.agent.Profile())
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var u profile.Update
	if err := c.BodyParser(&u); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if u.Age < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "age must not be negative")
	}
	s.agent.UpdateProfile(func(p *profile.Profile) { p.Update(u) })
	return c.JSON(StatusResponse{Status: "success", Message: "profile updated"})
}

func (s *Server) handleAddInterest(c *fiber.Ctx) error {
	var req InterestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Topic) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "topic is required")
	}
	level := 0.5
	if req.Level != nil {
		level = *req.Level
	}
	s.agent.UpdateProfile(func(p *profile.Profile) { p.AddInterest(req.Topic, level, req.Keywords) })
	return c.JSON(StatusResponse{Status: "success", Message: "interest added: " + req.Topic})
}

func (s *Server) handleUpdateTrait(c *fiber.Ctx) error {
	var req TraitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.TraitName) == "" || req.Value == nil {
		return fiber.NewError(fiber.StatusBadRequest, "trait_name and value are required")
	}
	s.agent.UpdateProfile(func(p *profile.Profile) { p.UpdateTrait(req.TraitName, *req.Value) })
	return c.JSON(StatusResponse{Status: "success", Message: "trait updated: " + req.TraitName})
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"summary": s.agent.Summary()})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.agent.Stats())
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	maxResults := c.QueryInt("max_results", defaultMaxResults)
	return c.JSON(fiber.Map{"results": s.agent.SearchPast(c.Query("query"), maxResults)})
}

func (s *Server) handleRecent(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultDays)
	if days < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "days must not be negative")
	}
	return c.JSON(fiber.Map{"memories": s.agent.Recent(days)})
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	s.agent.ResetConversation()
	return c.JSON(StatusResponse{Status: "success", Message: "conversation reset"})
}

func (s *Server) handleSave(c *fiber.Ctx) error {
	if err := s.agent.Save(); err != nil {
		return err
	}
	return c.JSON(StatusResponse{Status: "success", Message: "state saved"})
}
