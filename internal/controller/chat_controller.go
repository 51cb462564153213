package controller

import (
	"errors"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/pkg/serverutils"
	"github.com/best200-lab/juristmindchat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("sessions", c.CreateSession)
	h.Get("sessions", c.GetAllSessions)
	h.Get("sessions/:id/history", c.GetHistory)
	h.Delete("sessions/:id", c.DeleteSession)
	h.Post("send", c.Send)
	h.Post("regenerate", c.Regenerate)
	h.Post("feedback", c.SubmitFeedback)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.CreateSession(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetAllSessions(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session list", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), currentUserId(ctx), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatService.SendChat(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return c.sendError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer ready", res))
}

func (c *chatController) Regenerate(ctx *fiber.Ctx) error {
	var req dto.RegenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatService.Regenerate(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return c.sendError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer regenerated", res))
}

// sendError maps limit exhaustion to 429 with the upgrade payload; anything
// else is a plain message.
func (c *chatController) sendError(ctx *fiber.Ctx, err error) error {
	var limitErr *dto.LimitExceededError
	if errors.As(err, &limitErr) {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"code":    fiber.StatusTooManyRequests,
			"message": limitErr.Error(),
			"data": dto.LimitExceededData{
				Limit:            limitErr.Limit,
				Used:             limitErr.Used,
				ResetAfter:       limitErr.ResetAfter,
				ShowModalPricing: true,
			},
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	if err := c.chatService.DeleteSession(ctx.Context(), currentUserId(ctx), sessionId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

func (c *chatController) SubmitFeedback(ctx *fiber.Ctx) error {
	var req dto.MessageFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.chatService.SubmitFeedback(ctx.Context(), currentUserId(ctx), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Feedback recorded", nil))
}
