package usecases

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// SurveyDefinition são os campos editáveis de uma pesquisa
type SurveyDefinition struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Type               entities.SurveyType `json:"type"`
	StartDate          *time.Time          `json:"start_date"`
	EndDate            *time.Time          `json:"end_date"`
	DurationMinutes    *int                `json:"duration_minutes"`
	Anonymous          bool                `json:"anonymous"`
	DuplicateAllowed   bool                `json:"duplicate_allowed"`
	MaxResponses       *int                `json:"max_responses"`
	TargetEmployeeType string              `json:"target_employee_type"`
	FileAttached       bool                `json:"file_attached"`
}

func (d SurveyDefinition) validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return validationError("título da pesquisa obrigatório")
	}
	if utf8.RuneCountInString(title) > 200 {
		return validationError("título da pesquisa excede 200 caracteres")
	}
	if !d.Type.Valid() {
		return validationError("tipo de pesquisa inválido: %q", d.Type)
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return validationError("data final anterior à data inicial")
	}
	if d.MaxResponses != nil && *d.MaxResponses < 0 {
		return validationError("limite de respostas não pode ser negativo")
	}
	if d.DurationMinutes != nil && *d.DurationMinutes < 0 {
		return validationError("duração estimada não pode ser negativa")
	}
	return nil
}

func (d SurveyDefinition) apply(s *entities.Survey, loc *time.Location) {
	s.Title = strings.TrimSpace(d.Title)
	s.Description = d.Description
	s.Type = d.Type
	s.StartDate = dayIn(d.StartDate, loc)
	s.EndDate = dayIn(d.EndDate, loc)
	s.DurationMinutes = d.DurationMinutes
	s.Anonymous = entities.YN(d.Anonymous)
	s.DuplicateAllowed = entities.YN(d.DuplicateAllowed)
	s.MaxResponses = d.MaxResponses
	s.TargetEmployeeType = d.TargetEmployeeType
	s.FileAttached = entities.YN(d.FileAttached)
}

func dayIn(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return &day
}

// SurveyUseCase implementa o ciclo de vida das pesquisas
type SurveyUseCase struct {
	base
	cache StatisticsCache
}

// NewSurveyUseCase cria uma nova instância de SurveyUseCase
func NewSurveyUseCase(store repositories.Store, cache StatisticsCache, opts Options) *SurveyUseCase {
	return &SurveyUseCase{base: newBase(store, opts), cache: cache}
}

// CreateSurvey cria uma pesquisa em DRAFT
func (u *SurveyUseCase) CreateSurvey(ctx context.Context, def SurveyDefinition, actor string) (*entities.Survey, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	survey := &entities.Survey{Status: entities.SurveyDraft}
	def.apply(survey, u.location)
	survey.Stamp(actor, u.clock())

	err := u.run(ctx, func(ctx context.Context) error {
		return u.store.Surveys().Create(ctx, survey)
	})
	if err != nil {
		return nil, err
	}
	return survey, nil
}

// UpdateSurvey altera a definição; só é permitido enquanto a pesquisa está em DRAFT
func (u *SurveyUseCase) UpdateSurvey(ctx context.Context, id int64, def SurveyDefinition, actor string) (*entities.Survey, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	var survey *entities.Survey
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		survey, err = tx.Surveys().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !survey.IsDraft() {
			return newError(KindInvalidStateTransition, "pesquisa %d em %s não pode ser editada", id, survey.Status)
		}
		def.apply(survey, u.location)
		survey.Touch(actor, u.clock())
		return tx.Surveys().Update(ctx, survey)
	})
	if err != nil {
		return nil, err
	}
	return survey, nil
}

// GetSurvey retorna a pesquisa com perguntas, escolhas e público-alvo
func (u *SurveyUseCase) GetSurvey(ctx context.Context, id int64, includeDeleted bool) (*entities.Survey, error) {
	var survey *entities.Survey
	err := u.run(ctx, func(ctx context.Context) error {
		var err error
		survey, err = u.store.Surveys().FindByID(ctx, id, includeDeleted)
		if err != nil {
			return err
		}
		if survey.Questions, err = u.store.Questions().ListBySurvey(ctx, id, true); err != nil {
			return err
		}
		survey.Targets, err = u.store.Targets().ListBySurvey(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return survey, nil
}

// ListSurveys retorna as pesquisas com filtros e o total antes da paginação
func (u *SurveyUseCase) ListSurveys(ctx context.Context, filter repositories.SurveyFilter) ([]entities.Survey, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, validationError("status inválido: %q", filter.Status)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, validationError("tipo inválido: %q", filter.Type)
	}

	var surveys []entities.Survey
	var total int64
	err := u.run(ctx, func(ctx context.Context) error {
		var err error
		surveys, total, err = u.store.Surveys().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return surveys, total, nil
}

// ListActiveSurveys retorna as pesquisas ativas e abertas hoje
func (u *SurveyUseCase) ListActiveSurveys(ctx context.Context) ([]entities.Survey, error) {
	var surveys []entities.Survey
	err := u.run(ctx, func(ctx context.Context) error {
		var err error
		surveys, err = u.store.Surveys().ListActive(ctx, u.clock())
		return err
	})
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

// Activate publica a pesquisa. Exige ao menos uma pergunta e escolhas em toda pergunta de escolha.
func (u *SurveyUseCase) Activate(ctx context.Context, id int64, actor string) (*entities.Survey, error) {
	return u.transition(ctx, id, entities.SurveyActive, actor, func(ctx context.Context, tx repositories.Store) error {
		questions, err := tx.Questions().ListBySurvey(ctx, id, true)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return newError(KindInvalidStateTransition, "pesquisa %d não possui perguntas", id)
		}
		for _, q := range questions {
			if q.Type.IsChoice() && len(q.Choices) == 0 {
				return newError(KindInvalidStateTransition, "pergunta %d não possui escolhas", q.QuestionID)
			}
		}
		return nil
	})
}

func (u *SurveyUseCase) Close(ctx context.Context, id int64, actor string) (*entities.Survey, error) {
	return u.transition(ctx, id, entities.SurveyClosed, actor, nil)
}

func (u *SurveyUseCase) Archive(ctx context.Context, id int64, actor string) (*entities.Survey, error) {
	return u.transition(ctx, id, entities.SurveyArchived, actor, nil)
}

// transition avança o status um passo; a atualização é condicional ao status lido
func (u *SurveyUseCase) transition(ctx context.Context, id int64, to entities.SurveyStatus, actor string,
	precheck func(ctx context.Context, tx repositories.Store) error) (*entities.Survey, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var survey *entities.Survey
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		survey, err = tx.Surveys().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from := survey.Status
		if !from.CanTransitionTo(to) {
			return newError(KindInvalidStateTransition, "pesquisa %d não pode ir de %s para %s", id, from, to)
		}
		if precheck != nil {
			if err := precheck(ctx, tx); err != nil {
				return err
			}
		}

		at := u.clock()
		if err := tx.Surveys().UpdateStatus(ctx, id, from, to, actor, at); err != nil {
			return err
		}
		survey.Status = to
		survey.StatusChangedAt = &at
		survey.StatusChangedBy = actor
		survey.Touch(actor, at)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return survey, nil
}

// SoftDelete exclui logicamente a pesquisa; respostas existentes são preservadas
func (u *SurveyUseCase) SoftDelete(ctx context.Context, id int64, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := u.run(ctx, func(ctx context.Context) error {
		return u.store.Surveys().SoftDelete(ctx, id, actor, u.clock())
	})
	if err != nil {
		return err
	}

	// estatísticas em cache não podem sobreviver à pesquisa
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, id); err != nil {
			slog.Warn("falha ao invalidar cache de estatísticas",
				slog.Int64("survey_id", id),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
