// Package handlers is the transport boundary: fiber HTTP handlers for
// the control plane and the WebSocket streaming channel. No domain
// logic lives here, only request decoding, service calls and response
// shaping.
package handlers

import (
	stderrors "errors"
	"log/slog"

	"chatterbox/auth"
	"chatterbox/errors"
	"chatterbox/protocol"

	"chatterbox/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type API struct {
	log   *slog.Logger
	auth  services.IAuthService
	chats services.IChatService
}

func NewAPI(log *slog.Logger, authSvc services.IAuthService, chatSvc services.IChatService) *API {
	return &API{log: log, auth: authSvc, chats: chatSvc}
}

// RegisterRoutes wires the control plane and the streaming endpoint
// onto the fiber app.
func (a *API) RegisterRoutes(app *fiber.App, socket *Socket) {
	app.Get("/", a.Root)

	app.Post("/api/auth/login", a.Login)
	app.Post("/api/auth/signup", a.Signup)

	app.Get("/api/chats/:userID", a.ListChats)
	app.Get("/api/chats/:chatID/messages", a.ListMessages)
	app.Post("/api/chats", a.CreateChat)
	app.Get("/api/users", a.ListUsers)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:userID", websocket.New(socket.Handle))
}

func (a *API) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Chatterbox API is running!"})
}

func (a *API) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, token, err := a.auth.Login(req)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return detail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		a.log.Error("Login failed", "error", err)
		return detail(c, fiber.StatusInternalServerError, "login failed")
	}

	return c.JSON(fiber.Map{
		"user":  protocol.FromUser(user),
		"token": token,
	})
}

func (a *API) Signup(c *fiber.Ctx) error {
	var req auth.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, token, err := a.auth.Signup(req)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrUserAlreadyExists):
			return detail(c, fiber.StatusBadRequest, "User already exists")
		case isValidation(err):
			return detail(c, fiber.StatusBadRequest, err.Error())
		default:
			a.log.Error("Signup failed", "error", err)
			return detail(c, fiber.StatusInternalServerError, "signup failed")
		}
	}

	return c.JSON(fiber.Map{
		"user":  protocol.FromUser(user),
		"token": token,
	})
}

func (a *API) ListChats(c *fiber.Ctx) error {
	chats, err := a.chats.ListChats(c.Params("userID"))
	if err != nil {
		a.log.Error("Chat listing failed", "error", err)
		return detail(c, fiber.StatusInternalServerError, "chat listing failed")
	}
	return c.JSON(protocol.FromChats(chats))
}

func (a *API) ListMessages(c *fiber.Ctx) error {
	messages, err := a.chats.ListMessages(c.Params("chatID"))
	if err != nil {
		a.log.Error("Message listing failed", "error", err)
		return detail(c, fiber.StatusInternalServerError, "message listing failed")
	}
	return c.JSON(protocol.FromMessages(messages))
}

func (a *API) CreateChat(c *fiber.Ctx) error {
	var req auth.CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	chat, err := a.chats.CreateChat(req)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrUnknownParticipant), isValidation(err):
			return detail(c, fiber.StatusBadRequest, err.Error())
		default:
			a.log.Error("Chat creation failed", "error", err)
			return detail(c, fiber.StatusInternalServerError, "chat creation failed")
		}
	}
	return c.JSON(protocol.FromChat(chat))
}

func (a *API) ListUsers(c *fiber.Ctx) error {
	users, err := a.chats.ListUsers()
	if err != nil {
		a.log.Error("User listing failed", "error", err)
		return detail(c, fiber.StatusInternalServerError, "user listing failed")
	}
	return c.JSON(protocol.FromUsers(users))
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

func isValidation(err error) bool {
	var ve validator.ValidationErrors
	return stderrors.As(err, &ve)
}
