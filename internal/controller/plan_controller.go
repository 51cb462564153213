package controller

import (
	"github.com/best200-lab/juristmindchat/internal/pkg/serverutils"
	"github.com/best200-lab/juristmindchat/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	UsageStatus(ctx *fiber.Ctx) error
}

type planController struct {
	planService service.IPlanService
}

func NewPlanController(planService service.IPlanService) IPlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/plan/v1")
	h.Get("", c.Index)

	u := r.Group("/usage/v1")
	u.Use(serverutils.JwtMiddleware)
	u.Get("status", c.UsageStatus)
}

func (c *planController) Index(ctx *fiber.Ctx) error {
	res, err := c.planService.GetPlans(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans", res))
}

func (c *planController) UsageStatus(ctx *fiber.Ctx) error {
	res, err := c.planService.GetUsageStatus(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage status", res))
}
