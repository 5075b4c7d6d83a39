package handlers

import (
	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type StatisticsHandler struct {
	statisticsUseCase *usecases.StatisticsUseCase
}

func NewStatisticsHandler(statisticsUseCase *usecases.StatisticsUseCase) *StatisticsHandler {
	return &StatisticsHandler{statisticsUseCase: statisticsUseCase}
}

// GetStatistics retorna as estatísticas da pesquisa, do cache quando disponível
// @Summary Estatísticas da pesquisa
// @Tags statistics
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	stats, err := h.statisticsUseCase.GetStatistics(c.UserContext(), surveyID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  stats,
		"total": len(stats),
	})
}

// Recompute recalcula as estatísticas a partir das respostas concluídas
// @Summary Recalcula estatísticas
// @Tags statistics
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/statistics/recompute [post]
func (h *StatisticsHandler) Recompute(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	stats, err := h.statisticsUseCase.Recompute(c.UserContext(), surveyID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  stats,
		"total": len(stats),
	})
}
