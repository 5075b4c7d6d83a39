package handlers

import (
	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// TargetHandler lida com o público-alvo das pesquisas
type TargetHandler struct {
	targetUseCase *usecases.TargetUseCase
}

func NewTargetHandler(targetUseCase *usecases.TargetUseCase) *TargetHandler {
	return &TargetHandler{targetUseCase: targetUseCase}
}

// @Summary Lista regras de público-alvo
// @Tags targets
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/targets [get]
func (h *TargetHandler) ListTargets(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	targets, err := h.targetUseCase.ListTargets(c.UserContext(), surveyID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  targets,
		"total": len(targets),
	})
}

// @Summary Adiciona regra de público-alvo
// @Tags targets
// @Param id path int true "ID da pesquisa"
// @Success 201 {object} entities.Target
// @Router /api/v1/surveys/{id}/targets [post]
func (h *TargetHandler) AddTarget(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	var spec usecases.TargetSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	target, err := h.targetUseCase.AddTarget(c.UserContext(), surveyID, spec, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(target)
}

// @Summary Remove regra de público-alvo
// @Tags targets
// @Param id path int true "ID da pesquisa"
// @Param targetId path int true "ID da regra"
// @Success 204
// @Router /api/v1/surveys/{id}/targets/{targetId} [delete]
func (h *TargetHandler) RemoveTarget(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	targetID, ok := paramID(c, "targetId")
	if !ok {
		return badRequest(c, "ID de público-alvo inválido")
	}
	if err := h.targetUseCase.RemoveTarget(c.UserContext(), surveyID, targetID, middleware.ActorFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResolveRespondents expande as regras em matrículas
// @Summary Resolve respondentes
// @Tags targets
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/respondents [get]
func (h *TargetHandler) ResolveRespondents(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	empIDs, err := h.targetUseCase.ResolveRespondents(c.UserContext(), surveyID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  empIDs,
		"total": len(empIDs),
	})
}

// @Summary Verifica se um funcionário pode responder
// @Tags targets
// @Param id path int true "ID da pesquisa"
// @Param empId path string true "Matrícula"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/eligibility/{empId} [get]
func (h *TargetHandler) IsEligible(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	empID := c.Params("empId")
	eligible, err := h.targetUseCase.IsEligible(c.UserContext(), surveyID, empID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"emp_id":   empID,
		"eligible": eligible,
	})
}
