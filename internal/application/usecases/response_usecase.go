package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/google/uuid"
)

// Respondent identifica quem está iniciando uma resposta
type Respondent struct {
	EmpID     string `json:"emp_id"`
	IPAddr    string `json:"-"`
	UserAgent string `json:"-"`
}

// Answer é o conteúdo de uma resposta a uma pergunta
type Answer struct {
	ChoiceIDs []int64 `json:"choice_ids"`
	Text      *string `json:"text"`
	Score     *int    `json:"score"`
}

// ResponseUseCase registra respostas às pesquisas
type ResponseUseCase struct {
	base
	targets   *TargetUseCase
	directory Directory
	namespace uuid.UUID
}

func NewResponseUseCase(store repositories.Store, targets *TargetUseCase, directory Directory, opts Options) *ResponseUseCase {
	return &ResponseUseCase{
		base:      newBase(store, opts),
		targets:   targets,
		directory: directory,
		namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(opts.AnonymousSecret)),
	}
}

// RespondentKey devolve a chave gravada em emp_no. Em pesquisas anônimas é um UUIDv5
// estável por (pesquisa, funcionário), o que mantém a regra de duplicidade sem guardar a matrícula.
func (u *ResponseUseCase) RespondentKey(survey *entities.Survey, empID string) string {
	if !survey.IsAnonymous() {
		return empID
	}
	name := fmt.Sprintf("%d:%s", survey.SurveyID, empID)
	return uuid.NewSHA1(u.namespace, []byte(name)).String()
}

// auditActor evita gravar a matrícula real nas colunas de auditoria de respostas anônimas
func auditActor(response *entities.Response, actor string) string {
	if response.IsAnonymous() {
		return response.RespondentKey
	}
	return actor
}

// StartResponse abre uma resposta IN_PROGRESS aplicando janela, público-alvo, duplicidade e limite
func (u *ResponseUseCase) StartResponse(ctx context.Context, surveyID int64, respondent Respondent) (*entities.Response, error) {
	empID := strings.TrimSpace(respondent.EmpID)
	if empID == "" {
		return nil, validationError("respondente obrigatório")
	}

	var response *entities.Response
	err := u.run(ctx, func(ctx context.Context) error {
		survey, err := u.store.Surveys().FindByID(ctx, surveyID, false)
		if err != nil {
			return err
		}
		if !survey.IsActive() {
			return newError(KindInvalidStateTransition, "pesquisa %d em %s não aceita respostas", surveyID, survey.Status)
		}

		targets, err := u.store.Targets().ListBySurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		eligible, err := u.targets.eligible(ctx, targets, empID)
		if err != nil {
			return err
		}
		if !eligible {
			return validationError("funcionário %s não faz parte do público-alvo da pesquisa %d", empID, surveyID)
		}

		var employee *entities.Employee
		if !survey.IsAnonymous() {
			if employee, err = u.directory.FindEmployee(ctx, empID); err != nil {
				return err
			}
		}

		return u.store.Transaction(ctx, func(tx repositories.Store) error {
			survey, err := tx.Surveys().FindByIDForUpdate(ctx, surveyID)
			if err != nil {
				return err
			}
			if !survey.IsActive() {
				return newError(KindInvalidStateTransition, "pesquisa %d em %s não aceita respostas", surveyID, survey.Status)
			}
			now := u.clock()
			if !survey.OpenOn(now) {
				return validationError("pesquisa %d fora do período de respostas", surveyID)
			}

			key := u.RespondentKey(survey, empID)
			if !survey.IsDuplicateAllowed() {
				exists, err := tx.Responses().ExistsActive(ctx, surveyID, key)
				if err != nil {
					return err
				}
				if exists {
					return newError(KindDuplicateResponseNotAllowed, "respondente já possui resposta na pesquisa %d", surveyID)
				}
			}
			if survey.HasResponseLimit() {
				completed, err := tx.Responses().CountCompleted(ctx, surveyID)
				if err != nil {
					return err
				}
				if completed >= int64(*survey.MaxResponses) {
					return newError(KindResponseLimitReached, "pesquisa %d atingiu %d respostas", surveyID, *survey.MaxResponses)
				}
			}

			response = &entities.Response{
				SurveyID:      surveyID,
				RespondentKey: key,
				StartedAt:     now,
				Status:        entities.ResponseInProgress,
				Anonymous:     survey.Anonymous,
				UserAgent:     respondent.UserAgent,
			}
			if !survey.IsAnonymous() {
				response.IPAddr = respondent.IPAddr
				if employee != nil {
					response.RespondentName = employee.Name
					response.DeptName = employee.DeptName
				}
			}
			response.Stamp(auditActor(response, empID), now)
			return tx.Responses().Create(ctx, response)
		})
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// lockInProgress trava a resposta e exige que ela ainda esteja IN_PROGRESS
func lockInProgress(ctx context.Context, tx repositories.Store, responseID int64) (*entities.Response, error) {
	response, err := tx.Responses().FindByIDForUpdate(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response.Status.IsFinal() {
		return nil, newError(KindInvalidStateTransition, "resposta %d já encerrada como %s", responseID, response.Status)
	}
	return response, nil
}

// RecordAnswer grava a resposta de uma pergunta. Escolha única, texto e escala sobrescrevem;
// múltipla escolha acumula escolhas distintas.
func (u *ResponseUseCase) RecordAnswer(ctx context.Context, responseID, questionID int64, answer Answer, actor string) ([]entities.ResponseDetail, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var details []entities.ResponseDetail
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		response, err := lockInProgress(ctx, tx, responseID)
		if err != nil {
			return err
		}
		question, err := tx.Questions().FindByID(ctx, questionID, false)
		if err != nil {
			return err
		}
		if question.SurveyID != response.SurveyID {
			return validationError("pergunta %d não pertence à pesquisa %d", questionID, response.SurveyID)
		}

		rec := answerRecorder{
			tx:       tx,
			response: response,
			question: question,
			actor:    auditActor(response, actor),
			now:      u.clock(),
		}
		if err := rec.record(ctx, answer); err != nil {
			return err
		}
		details, err = tx.Details().ListByResponseAndQuestion(ctx, responseID, questionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ClearAnswer remove logicamente as respostas de uma pergunta
func (u *ResponseUseCase) ClearAnswer(ctx context.Context, responseID, questionID int64, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		response, err := lockInProgress(ctx, tx, responseID)
		if err != nil {
			return err
		}
		return tx.Details().SoftDeleteByQuestion(ctx, responseID, questionID, auditActor(response, actor), u.clock())
	})
}

// CompleteResponse conclui a resposta. Perguntas obrigatórias sem item vivo impedem a conclusão
// e o limite de respostas é conferido de novo com a pesquisa travada.
func (u *ResponseUseCase) CompleteResponse(ctx context.Context, responseID int64, actor string) (*entities.Response, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var response *entities.Response
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if response, err = lockInProgress(ctx, tx, responseID); err != nil {
			return err
		}
		survey, err := tx.Surveys().FindByIDForUpdate(ctx, response.SurveyID)
		if err != nil {
			return err
		}
		if !survey.IsActive() {
			return newError(KindInvalidStateTransition, "pesquisa %d em %s não aceita respostas", survey.SurveyID, survey.Status)
		}

		questions, err := tx.Questions().ListBySurvey(ctx, survey.SurveyID, false)
		if err != nil {
			return err
		}
		answeredIDs, err := tx.Details().AnsweredQuestionIDs(ctx, responseID)
		if err != nil {
			return err
		}
		if missing := missingRequired(questions, answeredIDs); len(missing) > 0 {
			return newError(KindMissingRequiredAnswer, "perguntas obrigatórias sem resposta: %v", missing)
		}

		completed, err := tx.Responses().CountCompleted(ctx, survey.SurveyID)
		if err != nil {
			return err
		}
		if survey.HasResponseLimit() && completed >= int64(*survey.MaxResponses) {
			return newError(KindResponseLimitReached, "pesquisa %d atingiu %d respostas", survey.SurveyID, *survey.MaxResponses)
		}

		now := u.clock()
		response.Status = entities.ResponseCompleted
		response.EndedAt = &now
		minutes := response.Duration()
		response.DurationMinutes = &minutes
		response.Touch(auditActor(response, actor), now)

		err = tx.Responses().UpdateState(ctx, responseID, entities.ResponseInProgress, map[string]interface{}{
			"resp_sts_cd":  entities.ResponseCompleted,
			"resp_end_dt":  now,
			"resp_dur_min": minutes,
			"upd_emp_id":   response.UpdatedBy,
			"upd_dt":       now,
		})
		if err != nil {
			return err
		}
		return tx.Surveys().UpdateResponseCount(ctx, survey.SurveyID, int(completed)+1)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func missingRequired(questions []entities.Question, answeredIDs []int64) []int64 {
	answered := make(map[int64]struct{}, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = struct{}{}
	}
	var missing []int64
	for _, q := range questions {
		if !q.IsRequired() {
			continue
		}
		if _, ok := answered[q.QuestionID]; !ok {
			missing = append(missing, q.QuestionID)
		}
	}
	return missing
}

// Abandon encerra a resposta sem concluí-la
func (u *ResponseUseCase) Abandon(ctx context.Context, responseID int64, actor string) (*entities.Response, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var response *entities.Response
	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if response, err = lockInProgress(ctx, tx, responseID); err != nil {
			return err
		}
		now := u.clock()
		response.Status = entities.ResponseAbandoned
		response.Touch(auditActor(response, actor), now)
		return tx.Responses().UpdateState(ctx, responseID, entities.ResponseInProgress, map[string]interface{}{
			"resp_sts_cd": entities.ResponseAbandoned,
			"upd_emp_id":  response.UpdatedBy,
			"upd_dt":      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetResponse retorna a resposta com seus itens vivos
func (u *ResponseUseCase) GetResponse(ctx context.Context, responseID int64) (*entities.Response, error) {
	var response *entities.Response
	err := u.run(ctx, func(ctx context.Context) error {
		var err error
		if response, err = u.store.Responses().FindByID(ctx, responseID, false); err != nil {
			return err
		}
		response.Details, err = u.store.Details().ListByResponse(ctx, responseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListResponses lista as respostas de uma pesquisa, opcionalmente por status
func (u *ResponseUseCase) ListResponses(ctx context.Context, surveyID int64, status entities.ResponseStatus) ([]entities.Response, error) {
	if status != "" && !status.Valid() {
		return nil, validationError("status de resposta inválido: %q", status)
	}

	var responses []entities.Response
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		var err error
		responses, err = u.store.Responses().ListBySurvey(ctx, surveyID, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
