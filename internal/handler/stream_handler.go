package handler

import (
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	internalWS "github.com/best200-lab/juristmindchat/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StreamHandler upgrades chat clients onto the per-session websocket hub.
type StreamHandler struct {
	hub        *internalWS.Hub
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	jwtSecret  string
}

func NewStreamHandler(hub *internalWS.Hub, uowFactory unitofwork.RepositoryFactory, log logger.ILogger, jwtSecret string) *StreamHandler {
	return &StreamHandler{
		hub:        hub,
		uowFactory: uowFactory,
		logger:     log,
		jwtSecret:  jwtSecret,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	// 1. Get Token source
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	// An unset secret rejects every token rather than verifying against
	// an empty key.
	if h.jwtSecret == "" {
		h.logger.Error("StreamHandler", "JWT secret is not configured", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token verification unavailable"})
	}

	// 2. Parse JWT with the same secret the auth middleware uses
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(h.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("StreamHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	// 3. Resolve the session being streamed and check ownership
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	uow := h.uowFactory.NewUnitOfWork(c.UserContext())
	session, err := uow.ChatSessionRepository().FindOne(c.UserContext(),
		specification.ByID{ID: sessionID},
		specification.UserOwnedBy{UserID: userID},
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve session"})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("StreamHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID, "session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, userID, sessionID)
			h.logger.Info("StreamHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID, "session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/:session_id", h.ServeWs)
}
