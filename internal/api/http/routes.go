package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/agent"
)

var validate = validator.New()

// chatRequest is one conversational turn.
type chatRequest struct {
	// SessionID scopes conversational memory; the server generates one
	// when the client omits it.
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	Text      string `json:"text" validate:"required,max=500"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, a *agent.Agent) {
	v1 := app.Group("/api/v1")

	v1.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		answer := a.Resolve(c.UserContext(), sessionID, req.Text)

		return c.JSON(chatResponse{
			SessionID: sessionID,
			Answer:    answer,
		})
	})
}
