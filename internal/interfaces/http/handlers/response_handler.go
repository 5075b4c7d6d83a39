package handlers

import (
	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// ResponseHandler lida com o preenchimento das pesquisas
type ResponseHandler struct {
	responseUseCase *usecases.ResponseUseCase
}

func NewResponseHandler(responseUseCase *usecases.ResponseUseCase) *ResponseHandler {
	return &ResponseHandler{responseUseCase: responseUseCase}
}

// StartResponse abre uma resposta para o ator da requisição
// @Summary Inicia resposta
// @Tags responses
// @Param id path int true "ID da pesquisa"
// @Success 201 {object} entities.Response
// @Failure 409 {object} map[string]interface{} "Resposta duplicada ou limite atingido"
// @Router /api/v1/surveys/{id}/responses [post]
func (h *ResponseHandler) StartResponse(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	respondent := usecases.Respondent{
		EmpID:     middleware.ActorFrom(c),
		IPAddr:    c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	response, err := h.responseUseCase.StartResponse(c.UserContext(), surveyID, respondent)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// ListResponses lista as respostas da pesquisa, opcionalmente por status
// @Summary Lista respostas
// @Tags responses
// @Param id path int true "ID da pesquisa"
// @Param status query string false "IN_PROGRESS, COMPLETED ou ABANDONED"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/responses [get]
func (h *ResponseHandler) ListResponses(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	status := entities.ResponseStatus(c.Query("status"))
	responses, err := h.responseUseCase.ListResponses(c.UserContext(), surveyID, status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  responses,
		"total": len(responses),
	})
}

// @Summary Retorna resposta com detalhes
// @Tags responses
// @Param id path int true "ID da resposta"
// @Success 200 {object} entities.Response
// @Router /api/v1/responses/{id} [get]
func (h *ResponseHandler) GetResponse(c *fiber.Ctx) error {
	responseID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de resposta inválido")
	}
	response, err := h.responseUseCase.GetResponse(c.UserContext(), responseID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(response)
}

// RecordAnswer grava (ou substitui) a resposta a uma pergunta
// @Summary Registra resposta
// @Tags responses
// @Param id path int true "ID da resposta"
// @Param questionId path int true "ID da pergunta"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/responses/{id}/answers/{questionId} [put]
func (h *ResponseHandler) RecordAnswer(c *fiber.Ctx) error {
	responseID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de resposta inválido")
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	var answer usecases.Answer
	if err := c.BodyParser(&answer); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	details, err := h.responseUseCase.RecordAnswer(c.UserContext(), responseID, questionID, answer, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  details,
		"total": len(details),
	})
}

// @Summary Limpa resposta de uma pergunta
// @Tags responses
// @Param id path int true "ID da resposta"
// @Param questionId path int true "ID da pergunta"
// @Success 204
// @Router /api/v1/responses/{id}/answers/{questionId} [delete]
func (h *ResponseHandler) ClearAnswer(c *fiber.Ctx) error {
	responseID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de resposta inválido")
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	if err := h.responseUseCase.ClearAnswer(c.UserContext(), responseID, questionID, middleware.ActorFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary Conclui resposta
// @Tags responses
// @Param id path int true "ID da resposta"
// @Success 200 {object} entities.Response
// @Failure 422 {object} map[string]interface{} "Pergunta obrigatória sem resposta"
// @Router /api/v1/responses/{id}/complete [post]
func (h *ResponseHandler) CompleteResponse(c *fiber.Ctx) error {
	responseID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de resposta inválido")
	}
	response, err := h.responseUseCase.CompleteResponse(c.UserContext(), responseID, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(response)
}

// @Summary Abandona resposta
// @Tags responses
// @Param id path int true "ID da resposta"
// @Success 200 {object} entities.Response
// @Router /api/v1/responses/{id}/abandon [post]
func (h *ResponseHandler) Abandon(c *fiber.Ctx) error {
	responseID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de resposta inválido")
	}
	response, err := h.responseUseCase.Abandon(c.UserContext(), responseID, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(response)
}
