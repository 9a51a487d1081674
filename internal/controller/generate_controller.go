package controller

import (
	"errors"

	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/pkg/serverutils"
	"turbo-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerateController interface {
	RegisterRoutes(r fiber.Router)
	GenerateNotes(ctx *fiber.Ctx) error
}

type generateController struct {
	generationService service.IGenerationService
	jwtMiddleware     fiber.Handler
}

func NewGenerateController(generationService service.IGenerationService, jwtMiddleware fiber.Handler) IGenerateController {
	return &generateController{
		generationService: generationService,
		jwtMiddleware:     jwtMiddleware,
	}
}

func (c *generateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generate/v1")
	h.Use(c.jwtMiddleware)
	h.Post("notes", c.GenerateNotes)
}

func (c *generateController) GenerateNotes(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GenerateNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.GenerateNotes(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingAPIKey) {
			return fiber.NewError(fiber.StatusInternalServerError, "OpenAI API key not found in environment variables.")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}
