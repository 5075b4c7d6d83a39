package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// answerRecorder grava os itens de resposta de uma pergunta dentro de uma transação
type answerRecorder struct {
	tx       repositories.Store
	response *entities.Response
	question *entities.Question
	actor    string
	now      time.Time
}

func (r answerRecorder) record(ctx context.Context, answer Answer) error {
	switch r.question.Type {
	case entities.QuestionSingleChoice:
		return r.single(ctx, answer)
	case entities.QuestionMultipleChoice:
		return r.multiple(ctx, answer)
	case entities.QuestionText:
		return r.text(ctx, answer)
	case entities.QuestionScale:
		return r.scale(ctx, answer)
	}
	return validationError("tipo de pergunta desconhecido: %q", r.question.Type)
}

func (r answerRecorder) single(ctx context.Context, answer Answer) error {
	if len(answer.ChoiceIDs) != 1 {
		return validationError("pergunta %d exige exatamente uma escolha", r.question.QuestionID)
	}
	if answer.Score != nil {
		return validationError("pergunta %d não aceita pontuação livre", r.question.QuestionID)
	}
	detail, choice, err := r.choiceDetail(ctx, answer.ChoiceIDs[0], 1)
	if err != nil {
		return err
	}
	if text, ok := nonBlank(answer.Text); ok {
		if !choice.IsEtcChoice() {
			return validationError("escolha %d não aceita texto", choice.ChoiceID)
		}
		detail.TextResponse = &text
	}
	if err := r.clear(ctx); err != nil {
		return err
	}
	return r.tx.Details().Create(ctx, detail)
}

func (r answerRecorder) multiple(ctx context.Context, answer Answer) error {
	if len(answer.ChoiceIDs) == 0 {
		return validationError("pergunta %d exige ao menos uma escolha", r.question.QuestionID)
	}
	if answer.Score != nil {
		return validationError("pergunta %d não aceita pontuação livre", r.question.QuestionID)
	}

	existing, err := r.tx.Details().ListByResponseAndQuestion(ctx, r.response.ResponseID, r.question.QuestionID)
	if err != nil {
		return err
	}
	selected := make(map[int64]struct{}, len(existing)+len(answer.ChoiceIDs))
	next := 1
	for _, d := range existing {
		if d.ChoiceID != nil {
			selected[*d.ChoiceID] = struct{}{}
		}
		if d.Order >= next {
			next = d.Order + 1
		}
	}

	text, hasText := nonBlank(answer.Text)
	details := make([]*entities.ResponseDetail, 0, len(answer.ChoiceIDs))
	for _, choiceID := range answer.ChoiceIDs {
		if _, dup := selected[choiceID]; dup {
			return validationError("escolha %d já selecionada", choiceID)
		}
		selected[choiceID] = struct{}{}

		detail, choice, err := r.choiceDetail(ctx, choiceID, next)
		if err != nil {
			return err
		}
		// o texto livre vai somente para a escolha outros
		if hasText && choice.IsEtcChoice() {
			t := text
			detail.TextResponse = &t
			hasText = false
		}
		details = append(details, detail)
		next++
	}
	if hasText {
		return validationError("texto só é aceito junto da escolha outros")
	}

	for _, d := range details {
		if err := r.tx.Details().Create(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r answerRecorder) text(ctx context.Context, answer Answer) error {
	if len(answer.ChoiceIDs) > 0 || answer.Score != nil {
		return validationError("pergunta %d aceita apenas texto", r.question.QuestionID)
	}
	text, ok := nonBlank(answer.Text)
	if !ok {
		return validationError("pergunta %d exige um texto", r.question.QuestionID)
	}
	detail := r.newDetail(1)
	detail.TextResponse = &text
	if err := r.clear(ctx); err != nil {
		return err
	}
	return r.tx.Details().Create(ctx, detail)
}

func (r answerRecorder) scale(ctx context.Context, answer Answer) error {
	if len(answer.ChoiceIDs) > 0 {
		return validationError("pergunta %d aceita apenas pontuação", r.question.QuestionID)
	}
	if answer.Score == nil {
		return validationError("pergunta %d exige uma pontuação", r.question.QuestionID)
	}
	if *answer.Score < 0 {
		return validationError("pontuação não pode ser negativa")
	}
	score := *answer.Score
	detail := r.newDetail(1)
	detail.Score = &score
	if text, ok := nonBlank(answer.Text); ok {
		detail.TextResponse = &text
	}
	if err := r.clear(ctx); err != nil {
		return err
	}
	return r.tx.Details().Create(ctx, detail)
}

func nonBlank(text *string) (string, bool) {
	if text == nil {
		return "", false
	}
	t := strings.TrimSpace(*text)
	return t, t != ""
}

// choiceDetail monta o item de uma escolha, copiando a pontuação dela
func (r answerRecorder) choiceDetail(ctx context.Context, choiceID int64, order int) (*entities.ResponseDetail, *entities.Choice, error) {
	choice, err := r.tx.Choices().FindByID(ctx, choiceID, false)
	if err != nil {
		return nil, nil, err
	}
	if choice.QuestionID != r.question.QuestionID {
		return nil, nil, validationError("escolha %d não pertence à pergunta %d", choiceID, r.question.QuestionID)
	}

	detail := r.newDetail(order)
	id := choice.ChoiceID
	detail.ChoiceID = &id
	if choice.Score != nil {
		score := *choice.Score
		detail.Score = &score
	}
	return detail, choice, nil
}

func (r answerRecorder) newDetail(order int) *entities.ResponseDetail {
	detail := &entities.ResponseDetail{
		ResponseID: r.response.ResponseID,
		SurveyID:   r.response.SurveyID,
		QuestionID: r.question.QuestionID,
		Order:      order,
	}
	detail.Stamp(r.actor, r.now)
	return detail
}

// clear exclui logicamente os itens anteriores da pergunta antes de sobrescrever
func (r answerRecorder) clear(ctx context.Context) error {
	return r.tx.Details().SoftDeleteByQuestion(ctx, r.response.ResponseID, r.question.QuestionID, r.actor, r.now)
}
