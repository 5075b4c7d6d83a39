package usecases

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuestionSpec são os campos editáveis de uma pergunta
type QuestionSpec struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Type          entities.QuestionType `json:"type"`
	Required      bool                  `json:"required"`
	SkipLogic     bool                  `json:"skip_logic"`
	SkipCondition json.RawMessage       `json:"skip_condition"`
	Scored        bool                  `json:"scored"`
	ScoreWeight   *decimal.Decimal      `json:"score_weight"`
	// Choices são as escolhas iniciais, criadas junto com a pergunta
	Choices []ChoiceSpec `json:"choices"`
}

func (s QuestionSpec) validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return validationError("título da pergunta obrigatório")
	}
	if !s.Type.Valid() {
		return validationError("tipo de pergunta inválido: %q", s.Type)
	}
	if len(s.SkipCondition) > 0 && !json.Valid(s.SkipCondition) {
		return validationError("condição de salto não é um JSON válido")
	}
	if s.SkipLogic && len(s.SkipCondition) == 0 {
		return validationError("lógica de salto exige uma condição")
	}
	if s.ScoreWeight != nil && s.ScoreWeight.IsNegative() {
		return validationError("peso da pontuação não pode ser negativo")
	}
	if len(s.Choices) > 0 && !s.Type.IsChoice() {
		return validationError("pergunta do tipo %s não aceita escolhas", s.Type)
	}
	etc := 0
	for _, c := range s.Choices {
		if err := c.validate(); err != nil {
			return err
		}
		if c.Etc {
			etc++
		}
	}
	if etc > 1 {
		return validationError("pergunta aceita uma única escolha outros")
	}
	return nil
}

func (s QuestionSpec) apply(q *entities.Question) {
	q.Title = strings.TrimSpace(s.Title)
	q.Description = s.Description
	q.Type = s.Type
	q.Required = entities.YN(s.Required)
	q.SkipLogic = entities.YN(s.SkipLogic)
	q.SkipCondition = nil
	if len(s.SkipCondition) > 0 {
		q.SkipCondition = datatypes.JSON(s.SkipCondition)
	}
	q.Scored = entities.YN(s.Scored)
	q.ScoreWeight = decimal.NullDecimal{}
	if s.ScoreWeight != nil {
		q.ScoreWeight = decimal.NewNullDecimal(*s.ScoreWeight)
	}
}

// QuestionUseCase mantém as perguntas de uma pesquisa em ordem densa 1..N
type QuestionUseCase struct {
	base
}

func NewQuestionUseCase(store repositories.Store, opts Options) *QuestionUseCase {
	return &QuestionUseCase{base: newBase(store, opts)}
}

// lockSurveyForEdit trava a pesquisa para ordenação e confirma que a estrutura ainda é editável
func lockSurveyForEdit(ctx context.Context, tx repositories.Store, surveyID int64) (*entities.Survey, error) {
	survey, err := tx.Surveys().LockForOrdering(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.Status.AcceptsStructureChanges() {
		return nil, newError(KindInvalidStateTransition, "pesquisa %d em %s não aceita alterações de estrutura", surveyID, survey.Status)
	}
	return survey, nil
}

// AppendQuestion adiciona a pergunta na posição N+1
func (u *QuestionUseCase) AppendQuestion(ctx context.Context, surveyID int64, spec QuestionSpec, actor string) (*entities.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	question := &entities.Question{SurveyID: surveyID}
	spec.apply(question)

	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		survey, err := lockSurveyForEdit(ctx, tx, surveyID)
		if err != nil {
			return err
		}
		if question.Order, err = tx.Questions().NextOrder(ctx, surveyID); err != nil {
			return err
		}
		// pesquisa ativa não pode ficar com pergunta de escolha sem escolhas
		if survey.IsActive() && spec.Type.IsChoice() && len(spec.Choices) == 0 {
			return newError(KindInvalidStateTransition, "pergunta de escolha em pesquisa ativa %d exige escolhas iniciais", surveyID)
		}
		at := u.clock()
		question.Stamp(actor, at)
		if err := tx.Questions().Create(ctx, question); err != nil {
			return err
		}
		for i, c := range spec.Choices {
			choice := entities.Choice{QuestionID: question.QuestionID, SurveyID: surveyID, Order: i + 1}
			c.apply(&choice)
			choice.Stamp(actor, at)
			if err := tx.Choices().Create(ctx, &choice); err != nil {
				return err
			}
			question.Choices = append(question.Choices, choice)
		}
		return tx.Surveys().BumpOrderVersion(ctx, surveyID, survey.OrderVersion)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion altera o conteúdo da pergunta sem mexer na ordem
func (u *QuestionUseCase) UpdateQuestion(ctx context.Context, questionID int64, spec QuestionSpec, actor string) (*entities.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if len(spec.Choices) > 0 {
		return nil, validationError("escolhas de uma pergunta existente são mantidas pelas operações de escolha")
	}

	var question *entities.Question
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if question, err = tx.Questions().FindByID(ctx, questionID, false); err != nil {
			return err
		}
		survey, err := lockSurveyForEdit(ctx, tx, question.SurveyID)
		if err != nil {
			return err
		}
		// respostas já gravadas dependem do tipo
		if !survey.IsDraft() && spec.Type != question.Type {
			return newError(KindInvalidStateTransition, "tipo da pergunta %d só muda com a pesquisa em DRAFT", questionID)
		}
		if question.Type.IsChoice() && !spec.Type.IsChoice() {
			count, err := tx.Choices().Count(ctx, questionID)
			if err != nil {
				return err
			}
			if count > 0 {
				return validationError("pergunta %d ainda possui escolhas", questionID)
			}
		}
		spec.apply(question)
		question.Touch(actor, u.clock())
		return tx.Questions().Update(ctx, question)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// ReorderQuestion move a pergunta para newIndex deslocando as intermediárias em ±1
func (u *QuestionUseCase) ReorderQuestion(ctx context.Context, surveyID, questionID int64, newIndex int, actor string) ([]entities.Question, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var questions []entities.Question
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		survey, err := lockSurveyForEdit(ctx, tx, surveyID)
		if err != nil {
			return err
		}
		question, err := tx.Questions().FindByID(ctx, questionID, false)
		if err != nil {
			return err
		}
		if question.SurveyID != surveyID {
			return newError(KindNotFound, "pergunta %d não pertence à pesquisa %d", questionID, surveyID)
		}
		count, err := tx.Questions().Count(ctx, surveyID)
		if err != nil {
			return err
		}
		if newIndex < 1 || int64(newIndex) > count {
			return validationError("posição %d fora do intervalo 1..%d", newIndex, count)
		}

		at := u.clock()
		if err := tx.Questions().Move(ctx, surveyID, questionID, question.Order, newIndex, actor, at); err != nil {
			return err
		}
		if err := tx.Surveys().BumpOrderVersion(ctx, surveyID, survey.OrderVersion); err != nil {
			return err
		}
		questions, err = tx.Questions().ListBySurvey(ctx, surveyID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// DeleteQuestion exclui logicamente a pergunta e suas escolhas e compacta a ordem
func (u *QuestionUseCase) DeleteQuestion(ctx context.Context, questionID int64, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		question, err := tx.Questions().FindByID(ctx, questionID, false)
		if err != nil {
			return err
		}
		survey, err := lockSurveyForEdit(ctx, tx, question.SurveyID)
		if err != nil {
			return err
		}
		// a ordem pode ter mudado antes da trava
		if question, err = tx.Questions().FindByID(ctx, questionID, false); err != nil {
			return err
		}
		count, err := tx.Questions().Count(ctx, survey.SurveyID)
		if err != nil {
			return err
		}
		if survey.IsActive() && count <= 1 {
			return newError(KindInvalidStateTransition, "pesquisa ativa %d precisa de ao menos uma pergunta", survey.SurveyID)
		}

		at := u.clock()
		if err := tx.Questions().SoftDelete(ctx, questionID, actor, at); err != nil {
			return err
		}
		if err := tx.Choices().SoftDeleteByQuestion(ctx, questionID, actor, at); err != nil {
			return err
		}
		if err := tx.Questions().ShiftOrders(ctx, survey.SurveyID, question.Order+1, int(count), -1, actor, at); err != nil {
			return err
		}
		return tx.Surveys().BumpOrderVersion(ctx, survey.SurveyID, survey.OrderVersion)
	})
}

// GetQuestion retorna a pergunta com suas escolhas
func (u *QuestionUseCase) GetQuestion(ctx context.Context, questionID int64) (*entities.Question, error) {
	var question *entities.Question
	err := u.run(ctx, func(ctx context.Context) error {
		var err error
		if question, err = u.store.Questions().FindByID(ctx, questionID, false); err != nil {
			return err
		}
		question.Choices, err = u.store.Choices().ListByQuestion(ctx, questionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// ListQuestions retorna as perguntas da pesquisa em ordem, com as escolhas
func (u *QuestionUseCase) ListQuestions(ctx context.Context, surveyID int64) ([]entities.Question, error) {
	var questions []entities.Question
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		var err error
		questions, err = u.store.Questions().ListBySurvey(ctx, surveyID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}
