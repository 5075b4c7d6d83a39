package usecases

import (
	"context"
	"strings"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// ChoiceSpec são os campos editáveis de uma escolha
type ChoiceSpec struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Score       *int   `json:"score"`
	Value       string `json:"value"`
	Etc         bool   `json:"etc"`
}

func (s ChoiceSpec) validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return validationError("título da escolha obrigatório")
	}
	if s.Score != nil && *s.Score < 0 {
		return validationError("pontuação da escolha não pode ser negativa")
	}
	return nil
}

func (s ChoiceSpec) apply(c *entities.Choice) {
	c.Title = strings.TrimSpace(s.Title)
	c.Description = s.Description
	c.Score = s.Score
	c.Value = s.Value
	c.Etc = entities.YN(s.Etc)
}

// ChoiceUseCase mantém as escolhas de uma pergunta em ordem densa 1..N
type ChoiceUseCase struct {
	base
}

func NewChoiceUseCase(store repositories.Store, opts Options) *ChoiceUseCase {
	return &ChoiceUseCase{base: newBase(store, opts)}
}

// lockQuestionForEdit trava a pergunta sem esperar e confirma que a pesquisa ainda aceita alterações
func lockQuestionForEdit(ctx context.Context, tx repositories.Store, questionID int64) (*entities.Question, *entities.Survey, error) {
	question, err := tx.Questions().FindByIDForUpdate(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	survey, err := tx.Surveys().FindByID(ctx, question.SurveyID, false)
	if err != nil {
		return nil, nil, err
	}
	if !survey.Status.AcceptsStructureChanges() {
		return nil, nil, newError(KindInvalidStateTransition, "pesquisa %d em %s não aceita alterações de estrutura", survey.SurveyID, survey.Status)
	}
	return question, survey, nil
}

func ensureSingleEtc(ctx context.Context, tx repositories.Store, questionID, exceptChoiceID int64) error {
	etc, err := tx.Choices().FindEtcChoice(ctx, questionID)
	if err != nil {
		return err
	}
	if etc != nil && etc.ChoiceID != exceptChoiceID {
		return validationError("pergunta %d já possui a escolha outros (%d)", questionID, etc.ChoiceID)
	}
	return nil
}

// AppendChoice adiciona a escolha na posição N+1 de uma pergunta de escolha
func (u *ChoiceUseCase) AppendChoice(ctx context.Context, questionID int64, spec ChoiceSpec, actor string) (*entities.Choice, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	choice := &entities.Choice{QuestionID: questionID}
	spec.apply(choice)

	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		question, _, err := lockQuestionForEdit(ctx, tx, questionID)
		if err != nil {
			return err
		}
		if !question.Type.IsChoice() {
			return validationError("pergunta %d do tipo %s não aceita escolhas", questionID, question.Type)
		}
		if spec.Etc {
			if err := ensureSingleEtc(ctx, tx, questionID, 0); err != nil {
				return err
			}
		}
		if choice.Order, err = tx.Choices().NextOrder(ctx, questionID); err != nil {
			return err
		}
		choice.SurveyID = question.SurveyID
		choice.Stamp(actor, u.clock())
		if err := tx.Choices().Create(ctx, choice); err != nil {
			return err
		}
		return tx.Questions().BumpOrderVersion(ctx, questionID, question.OrderVersion)
	})
	if err != nil {
		return nil, err
	}
	return choice, nil
}

// UpdateChoice altera o conteúdo da escolha sem mexer na ordem
func (u *ChoiceUseCase) UpdateChoice(ctx context.Context, choiceID int64, spec ChoiceSpec, actor string) (*entities.Choice, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	var choice *entities.Choice
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if choice, err = tx.Choices().FindByID(ctx, choiceID, false); err != nil {
			return err
		}
		if _, _, err := lockQuestionForEdit(ctx, tx, choice.QuestionID); err != nil {
			return err
		}
		if spec.Etc {
			if err := ensureSingleEtc(ctx, tx, choice.QuestionID, choiceID); err != nil {
				return err
			}
		}
		spec.apply(choice)
		choice.Touch(actor, u.clock())
		return tx.Choices().Update(ctx, choice)
	})
	if err != nil {
		return nil, err
	}
	return choice, nil
}

// ReorderChoice move a escolha para newIndex dentro da pergunta
func (u *ChoiceUseCase) ReorderChoice(ctx context.Context, questionID, choiceID int64, newIndex int, actor string) ([]entities.Choice, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var choices []entities.Choice
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		question, _, err := lockQuestionForEdit(ctx, tx, questionID)
		if err != nil {
			return err
		}
		choice, err := tx.Choices().FindByID(ctx, choiceID, false)
		if err != nil {
			return err
		}
		if choice.QuestionID != questionID {
			return newError(KindNotFound, "escolha %d não pertence à pergunta %d", choiceID, questionID)
		}
		count, err := tx.Choices().Count(ctx, questionID)
		if err != nil {
			return err
		}
		if newIndex < 1 || int64(newIndex) > count {
			return validationError("posição %d fora do intervalo 1..%d", newIndex, count)
		}

		at := u.clock()
		if err := tx.Choices().Move(ctx, questionID, choiceID, choice.Order, newIndex, actor, at); err != nil {
			return err
		}
		if err := tx.Questions().BumpOrderVersion(ctx, questionID, question.OrderVersion); err != nil {
			return err
		}
		choices, err = tx.Choices().ListByQuestion(ctx, questionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return choices, nil
}

// DeleteChoice exclui logicamente a escolha e compacta a ordem das seguintes
func (u *ChoiceUseCase) DeleteChoice(ctx context.Context, choiceID int64, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		choice, err := tx.Choices().FindByID(ctx, choiceID, false)
		if err != nil {
			return err
		}
		question, survey, err := lockQuestionForEdit(ctx, tx, choice.QuestionID)
		if err != nil {
			return err
		}
		if choice, err = tx.Choices().FindByID(ctx, choiceID, false); err != nil {
			return err
		}
		count, err := tx.Choices().Count(ctx, question.QuestionID)
		if err != nil {
			return err
		}
		if survey.IsActive() && count <= 1 {
			return newError(KindInvalidStateTransition, "pergunta %d de pesquisa ativa precisa de ao menos uma escolha", question.QuestionID)
		}

		at := u.clock()
		if err := tx.Choices().SoftDelete(ctx, choiceID, actor, at); err != nil {
			return err
		}
		if err := tx.Choices().ShiftOrders(ctx, question.QuestionID, choice.Order+1, int(count), -1, actor, at); err != nil {
			return err
		}
		return tx.Questions().BumpOrderVersion(ctx, question.QuestionID, question.OrderVersion)
	})
}

// ListChoices retorna as escolhas vivas da pergunta em ordem
func (u *ChoiceUseCase) ListChoices(ctx context.Context, questionID int64) ([]entities.Choice, error) {
	var choices []entities.Choice
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Questions().FindByID(ctx, questionID, false); err != nil {
			return err
		}
		var err error
		choices, err = u.store.Choices().ListByQuestion(ctx, questionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return choices, nil
}
