package handlers

import (
	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// QuestionHandler lida com perguntas e escolhas de uma pesquisa
type QuestionHandler struct {
	questionUseCase *usecases.QuestionUseCase
	choiceUseCase   *usecases.ChoiceUseCase
}

func NewQuestionHandler(questionUseCase *usecases.QuestionUseCase, choiceUseCase *usecases.ChoiceUseCase) *QuestionHandler {
	return &QuestionHandler{
		questionUseCase: questionUseCase,
		choiceUseCase:   choiceUseCase,
	}
}

// ListQuestions retorna as perguntas da pesquisa em ordem, com escolhas
// @Summary Lista perguntas
// @Tags questions
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	questions, err := h.questionUseCase.ListQuestions(c.UserContext(), surveyID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  questions,
		"total": len(questions),
	})
}

// AppendQuestion adiciona uma pergunta ao fim da pesquisa
// @Summary Adiciona pergunta
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Success 201 {object} entities.Question
// @Failure 409 {object} map[string]interface{} "Pesquisa não aceita alterações ou ordenação concorrente"
// @Router /api/v1/surveys/{id}/questions [post]
func (h *QuestionHandler) AppendQuestion(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	var spec usecases.QuestionSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	question, err := h.questionUseCase.AppendQuestion(c.UserContext(), surveyID, spec, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// ReorderQuestion move a pergunta para a posição informada (1..N)
// @Summary Reordena pergunta
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Param questionId path int true "ID da pergunta"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/{id}/questions/{questionId}/order [put]
func (h *QuestionHandler) ReorderQuestion(c *fiber.Ctx) error {
	surveyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	questions, err := h.questionUseCase.ReorderQuestion(c.UserContext(), surveyID, questionID, req.Index, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  questions,
		"total": len(questions),
	})
}

// @Summary Retorna pergunta
// @Tags questions
// @Param id path int true "ID da pergunta"
// @Success 200 {object} entities.Question
// @Router /api/v1/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	question, err := h.questionUseCase.GetQuestion(c.UserContext(), questionID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(question)
}

// @Summary Atualiza pergunta
// @Tags questions
// @Param id path int true "ID da pergunta"
// @Success 200 {object} entities.Question
// @Router /api/v1/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	var spec usecases.QuestionSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	question, err := h.questionUseCase.UpdateQuestion(c.UserContext(), questionID, spec, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(question)
}

// @Summary Exclui pergunta
// @Tags questions
// @Param id path int true "ID da pergunta"
// @Success 204
// @Router /api/v1/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	if err := h.questionUseCase.DeleteQuestion(c.UserContext(), questionID, middleware.ActorFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary Lista escolhas
// @Tags choices
// @Param id path int true "ID da pergunta"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/questions/{id}/choices [get]
func (h *QuestionHandler) ListChoices(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	choices, err := h.choiceUseCase.ListChoices(c.UserContext(), questionID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  choices,
		"total": len(choices),
	})
}

// @Summary Adiciona escolha
// @Tags choices
// @Param id path int true "ID da pergunta"
// @Success 201 {object} entities.Choice
// @Router /api/v1/questions/{id}/choices [post]
func (h *QuestionHandler) AppendChoice(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	var spec usecases.ChoiceSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	choice, err := h.choiceUseCase.AppendChoice(c.UserContext(), questionID, spec, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(choice)
}

// @Summary Reordena escolha
// @Tags choices
// @Param id path int true "ID da pergunta"
// @Param choiceId path int true "ID da escolha"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/questions/{id}/choices/{choiceId}/order [put]
func (h *QuestionHandler) ReorderChoice(c *fiber.Ctx) error {
	questionID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pergunta inválido")
	}
	choiceID, ok := paramID(c, "choiceId")
	if !ok {
		return badRequest(c, "ID de escolha inválido")
	}
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	choices, err := h.choiceUseCase.ReorderChoice(c.UserContext(), questionID, choiceID, req.Index, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  choices,
		"total": len(choices),
	})
}

// @Summary Atualiza escolha
// @Tags choices
// @Param id path int true "ID da escolha"
// @Success 200 {object} entities.Choice
// @Router /api/v1/choices/{id} [put]
func (h *QuestionHandler) UpdateChoice(c *fiber.Ctx) error {
	choiceID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de escolha inválido")
	}
	var spec usecases.ChoiceSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	choice, err := h.choiceUseCase.UpdateChoice(c.UserContext(), choiceID, spec, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(choice)
}

// @Summary Exclui escolha
// @Tags choices
// @Param id path int true "ID da escolha"
// @Success 204
// @Router /api/v1/choices/{id} [delete]
func (h *QuestionHandler) DeleteChoice(c *fiber.Ctx) error {
	choiceID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de escolha inválido")
	}
	if err := h.choiceUseCase.DeleteChoice(c.UserContext(), choiceID, middleware.ActorFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
