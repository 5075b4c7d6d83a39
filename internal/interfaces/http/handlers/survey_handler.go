package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"
	"github.com/PavaniTiago/survey-api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// SurveyHandler lida com requisições relacionadas a pesquisas
type SurveyHandler struct {
	surveyUseCase *usecases.SurveyUseCase
	location      *time.Location
}

// NewSurveyHandler cria uma nova instância de SurveyHandler
func NewSurveyHandler(surveyUseCase *usecases.SurveyUseCase, location *time.Location) *SurveyHandler {
	return &SurveyHandler{
		surveyUseCase: surveyUseCase,
		location:      location,
	}
}

// surveyRequest recebe as datas como texto: "2006-01-02" no fuso da empresa ou RFC3339
type surveyRequest struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Type               entities.SurveyType `json:"type"`
	StartDate          string              `json:"start_date"`
	EndDate            string              `json:"end_date"`
	DurationMinutes    *int                `json:"duration_minutes"`
	Anonymous          bool                `json:"anonymous"`
	DuplicateAllowed   bool                `json:"duplicate_allowed"`
	MaxResponses       *int                `json:"max_responses"`
	TargetEmployeeType string              `json:"target_employee_type"`
	FileAttached       bool                `json:"file_attached"`
}

func (h *SurveyHandler) definition(c *fiber.Ctx) (usecases.SurveyDefinition, error) {
	var req surveyRequest
	if err := c.BodyParser(&req); err != nil {
		return usecases.SurveyDefinition{}, fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	startDate, err := utils.ParseDateParam(req.StartDate, h.location)
	if err != nil {
		return usecases.SurveyDefinition{}, fiber.NewError(fiber.StatusBadRequest, "Formato inválido para 'start_date'")
	}
	endDate, err := utils.ParseDateParam(req.EndDate, h.location)
	if err != nil {
		return usecases.SurveyDefinition{}, fiber.NewError(fiber.StatusBadRequest, "Formato inválido para 'end_date'")
	}
	return usecases.SurveyDefinition{
		Title:              req.Title,
		Description:        req.Description,
		Type:               req.Type,
		StartDate:          startDate,
		EndDate:            endDate,
		DurationMinutes:    req.DurationMinutes,
		Anonymous:          req.Anonymous,
		DuplicateAllowed:   req.DuplicateAllowed,
		MaxResponses:       req.MaxResponses,
		TargetEmployeeType: req.TargetEmployeeType,
		FileAttached:       req.FileAttached,
	}, nil
}

// CreateSurvey cria uma pesquisa em rascunho
// @Summary Cria uma pesquisa
// @Tags surveys
// @Accept json
// @Produce json
// @Success 201 {object} entities.Survey
// @Failure 400 {object} map[string]interface{} "Erro de validação"
// @Router /api/v1/surveys [post]
func (h *SurveyHandler) CreateSurvey(c *fiber.Ctx) error {
	def, err := h.definition(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	survey, err := h.surveyUseCase.CreateSurvey(c.UserContext(), def, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(survey)
}

// UpdateSurvey altera a definição de uma pesquisa em rascunho
// @Summary Atualiza uma pesquisa
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} entities.Survey
// @Failure 409 {object} map[string]interface{} "Pesquisa não está em rascunho"
// @Router /api/v1/surveys/{id} [put]
func (h *SurveyHandler) UpdateSurvey(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	def, err := h.definition(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	survey, err := h.surveyUseCase.UpdateSurvey(c.UserContext(), id, def, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(survey)
}

// GetSurvey retorna a pesquisa com perguntas, escolhas e público-alvo
// @Summary Retorna uma pesquisa
// @Tags surveys
// @Produce json
// @Param id path int true "ID da pesquisa"
// @Param include_deleted query bool false "Incluir pesquisas excluídas" default(false)
// @Success 200 {object} entities.Survey
// @Failure 404 {object} map[string]interface{} "Pesquisa não encontrada"
// @Router /api/v1/surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	includeDeleted := c.QueryBool("include_deleted", false)
	survey, err := h.surveyUseCase.GetSurvey(c.UserContext(), id, includeDeleted)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(survey)
}

// GetSurveys retorna as pesquisas com opção de filtros
// @Summary Retorna todas as pesquisas
// @Description Retorna as pesquisas com filtros por status, tipo, palavra-chave e paginação
// @Tags surveys
// @Produce json
// @Param page query int false "Página atual" default(1)
// @Param limit query int false "Itens por página" default(10)
// @Param status query string false "DRAFT, ACTIVE, CLOSED ou ARCHIVED"
// @Param type query string false "Tipo da pesquisa"
// @Param keyword query string false "Busca no título e na descrição"
// @Param sortBy query string false "created_at, updated_at, title, start_date ou end_date"
// @Param sortDirection query string false "asc ou desc" default(desc)
// @Success 200 {object} map[string]interface{} "Lista de pesquisas"
// @Failure 400 {object} map[string]interface{} "Erro de parâmetros"
// @Router /api/v1/surveys [get]
func (h *SurveyHandler) GetSurveys(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return badRequest(c, "Parâmetro 'page' inválido")
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		return badRequest(c, "Parâmetro 'limit' inválido")
	}

	filter := repositories.SurveyFilter{
		Page:           page,
		Limit:          limit,
		Status:         entities.SurveyStatus(c.Query("status")),
		Type:           entities.SurveyType(c.Query("type")),
		Keyword:        c.Query("keyword"),
		SortBy:         c.Query("sortBy", "created_at"),
		SortDirection:  c.Query("sortDirection", "desc"),
		IncludeDeleted: c.QueryBool("include_deleted", false),
	}

	surveys, total, err := h.surveyUseCase.ListSurveys(c.UserContext(), filter)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"data":  surveys,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetActiveSurveys retorna as pesquisas ativas e abertas hoje
// @Summary Pesquisas abertas
// @Tags surveys
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/surveys/active [get]
func (h *SurveyHandler) GetActiveSurveys(c *fiber.Ctx) error {
	surveys, err := h.surveyUseCase.ListActiveSurveys(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  surveys,
		"total": len(surveys),
	})
}

// @Summary Publica uma pesquisa
// @Tags surveys
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} entities.Survey
// @Failure 409 {object} map[string]interface{} "Transição de status inválida"
// @Router /api/v1/surveys/{id}/activate [post]
func (h *SurveyHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.surveyUseCase.Activate)
}

// @Summary Encerra uma pesquisa
// @Tags surveys
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} entities.Survey
// @Router /api/v1/surveys/{id}/close [post]
func (h *SurveyHandler) Close(c *fiber.Ctx) error {
	return h.transition(c, h.surveyUseCase.Close)
}

// @Summary Arquiva uma pesquisa
// @Tags surveys
// @Param id path int true "ID da pesquisa"
// @Success 200 {object} entities.Survey
// @Router /api/v1/surveys/{id}/archive [post]
func (h *SurveyHandler) Archive(c *fiber.Ctx) error {
	return h.transition(c, h.surveyUseCase.Archive)
}

type surveyTransition func(ctx context.Context, id int64, actor string) (*entities.Survey, error)

func (h *SurveyHandler) transition(c *fiber.Ctx, fn surveyTransition) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	survey, err := fn(c.UserContext(), id, middleware.ActorFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(survey)
}

// DeleteSurvey marca a pesquisa como excluída
// @Summary Exclui uma pesquisa
// @Tags surveys
// @Param id path int true "ID da pesquisa"
// @Success 204
// @Router /api/v1/surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "ID de pesquisa inválido")
	}
	if err := h.surveyUseCase.SoftDelete(c.UserContext(), id, middleware.ActorFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
