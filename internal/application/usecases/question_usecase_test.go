package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/shopspring/decimal"
)

func TestQuestionOrderStaysDense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})

	ids := make(map[string]int64)
	for _, title := range []string{"A", "B", "C", "D"} {
		q := f.question(t, s.SurveyID, QuestionSpec{Title: title, Type: entities.QuestionText})
		ids[title] = q.QuestionID
	}

	// A B C D -> B C A D
	questions, err := f.uc.Questions.ReorderQuestion(ctx, s.SurveyID, ids["A"], 3, admin)
	if err != nil {
		t.Fatalf("ReorderQuestion: %v", err)
	}
	if got := titles(questions); !equalStrings(got, []string{"B", "C", "A", "D"}) {
		t.Fatalf("titles = %v, want [B C A D]", got)
	}
	if got := orders(questions); !equalInts(got, []int{1, 2, 3, 4}) {
		t.Fatalf("orders = %v, want 1..4", got)
	}

	// B C A D -> D B C A
	questions, err = f.uc.Questions.ReorderQuestion(ctx, s.SurveyID, ids["D"], 1, admin)
	if err != nil {
		t.Fatalf("ReorderQuestion: %v", err)
	}
	if got := titles(questions); !equalStrings(got, []string{"D", "B", "C", "A"}) {
		t.Fatalf("titles = %v, want [D B C A]", got)
	}

	// mover para a mesma posição não altera nada
	questions, err = f.uc.Questions.ReorderQuestion(ctx, s.SurveyID, ids["B"], 2, admin)
	if err != nil {
		t.Fatalf("ReorderQuestion(same): %v", err)
	}
	if got := titles(questions); !equalStrings(got, []string{"D", "B", "C", "A"}) {
		t.Fatalf("titles = %v, want unchanged", got)
	}

	if err := f.uc.Questions.DeleteQuestion(ctx, ids["B"], admin); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	questions, err = f.uc.Questions.ListQuestions(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if got := titles(questions); !equalStrings(got, []string{"D", "C", "A"}) {
		t.Fatalf("titles = %v, want [D C A]", got)
	}
	if got := orders(questions); !equalInts(got, []int{1, 2, 3}) {
		t.Fatalf("orders = %v, want 1..3", got)
	}

	// a próxima pergunta entra no fim da ordem compactada
	e := f.question(t, s.SurveyID, QuestionSpec{Title: "E", Type: entities.QuestionText})
	if e.Order != 4 {
		t.Fatalf("appended order = %d, want 4", e.Order)
	}
}

func TestReorderQuestionOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})

	for _, idx := range []int{0, 3, -1} {
		_, err := f.uc.Questions.ReorderQuestion(ctx, s.SurveyID, q.QuestionID, idx, admin)
		wantKind(t, err, KindValidation)
	}

	other := f.survey(t, SurveyDefinition{})
	_, err := f.uc.Questions.ReorderQuestion(ctx, other.SurveyID, q.QuestionID, 1, admin)
	wantKind(t, err, KindNotFound)
}

func TestQuestionStructureFrozenAfterClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.activate(t, s.SurveyID)

	// ativa ainda aceita novas perguntas
	f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionScale})

	if _, err := f.uc.Surveys.Close(ctx, s.SurveyID, admin); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, err := f.uc.Questions.AppendQuestion(ctx, s.SurveyID, QuestionSpec{Title: "x", Type: entities.QuestionText}, admin)
	wantKind(t, err, KindInvalidStateTransition)
	_, err = f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{Title: "x", Type: entities.QuestionText}, admin)
	wantKind(t, err, KindInvalidStateTransition)
	_, err = f.uc.Questions.ReorderQuestion(ctx, s.SurveyID, q.QuestionID, 2, admin)
	wantKind(t, err, KindInvalidStateTransition)
	err = f.uc.Questions.DeleteQuestion(ctx, q.QuestionID, admin)
	wantKind(t, err, KindInvalidStateTransition)
}

func TestDeleteLastQuestionOfActiveSurvey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.activate(t, s.SurveyID)

	err := f.uc.Questions.DeleteQuestion(ctx, q.QuestionID, admin)
	wantKind(t, err, KindInvalidStateTransition)
}

func TestDeleteQuestionRemovesChoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionMultipleChoice})
	f.choice(t, q.QuestionID, ChoiceSpec{Title: "1"})
	f.choice(t, q.QuestionID, ChoiceSpec{Title: "2"})

	if err := f.uc.Questions.DeleteQuestion(ctx, q.QuestionID, admin); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	count, err := f.store.Choices().Count(ctx, q.QuestionID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("live choices = %d, want 0", count)
	}
	_, err = f.uc.Questions.GetQuestion(ctx, q.QuestionID)
	wantKind(t, err, KindNotFound)
}

func TestQuestionSpecValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	negative := decimal.NewFromInt(-1)

	cases := map[string]QuestionSpec{
		"empty title":         {Type: entities.QuestionText},
		"unknown type":        {Title: "x", Type: "RANKING"},
		"invalid json":        {Title: "x", Type: entities.QuestionText, SkipLogic: true, SkipCondition: json.RawMessage(`{`)},
		"skip without target": {Title: "x", Type: entities.QuestionText, SkipLogic: true},
		"negative weight":     {Title: "x", Type: entities.QuestionText, ScoreWeight: &negative},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Questions.AppendQuestion(ctx, s.SurveyID, spec, admin)
			wantKind(t, err, KindValidation)
		})
	}
}

func TestUpdateQuestionKeepsChoicesConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	weight := decimal.RequireFromString("1.5")
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionSingleChoice})
	f.choice(t, q.QuestionID, ChoiceSpec{Title: "Sim"})

	_, err := f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{Title: "texto", Type: entities.QuestionText}, admin)
	wantKind(t, err, KindValidation)

	updated, err := f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{
		Title:         "Você recomendaria?",
		Type:          entities.QuestionMultipleChoice,
		Required:      true,
		SkipLogic:     true,
		SkipCondition: json.RawMessage(`{"choice":1,"goto":3}`),
		Scored:        true,
		ScoreWeight:   &weight,
	}, admin)
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Order != q.Order {
		t.Fatalf("order = %d, want %d", updated.Order, q.Order)
	}

	got, err := f.uc.Questions.GetQuestion(ctx, q.QuestionID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got.Type != entities.QuestionMultipleChoice || !got.IsRequired() || !got.HasSkipLogic() || !got.HasScore() {
		t.Fatalf("question not updated: %+v", got)
	}
	if !got.ScoreWeight.Valid || !got.ScoreWeight.Decimal.Equal(weight) {
		t.Fatalf("score weight = %v, want 1.5", got.ScoreWeight)
	}
	if len(got.Choices) != 1 {
		t.Fatalf("choices = %d, want 1", len(got.Choices))
	}
}

func TestQuestionTypeFrozenOnceActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText, Required: true})
	f.activate(t, s.SurveyID)
	completeWith(t, f, s.SurveyID, q.QuestionID, "E1", Answer{Text: strPtr("ok")})

	_, err := f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{Title: "Escolha", Type: entities.QuestionSingleChoice, Required: true}, admin)
	wantKind(t, err, KindInvalidStateTransition)
	got, err := f.uc.Questions.GetQuestion(ctx, q.QuestionID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got.Type != entities.QuestionText {
		t.Fatalf("type = %s, want TEXT", got.Type)
	}

	// o conteúdo continua editável
	if _, err := f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{Title: "Comentário", Type: entities.QuestionText, Required: true}, admin); err != nil {
		t.Fatalf("UpdateQuestion(same type): %v", err)
	}
	_, err = f.uc.Questions.UpdateQuestion(ctx, q.QuestionID, QuestionSpec{
		Title:   "Comentário",
		Type:    entities.QuestionText,
		Choices: []ChoiceSpec{{Title: "Sim"}},
	}, admin)
	wantKind(t, err, KindValidation)

	_, err = f.uc.Questions.AppendQuestion(ctx, s.SurveyID, QuestionSpec{Title: "Vazia", Type: entities.QuestionSingleChoice}, admin)
	wantKind(t, err, KindInvalidStateTransition)

	single, err := f.uc.Questions.AppendQuestion(ctx, s.SurveyID, QuestionSpec{
		Title:    "Recomendaria?",
		Type:     entities.QuestionSingleChoice,
		Required: true,
		Choices:  []ChoiceSpec{{Title: "Sim", Score: intPtr(1)}, {Title: "Não"}},
	}, admin)
	if err != nil {
		t.Fatalf("AppendQuestion(with choices): %v", err)
	}
	choices, err := f.uc.Choices.ListChoices(ctx, single.QuestionID)
	if err != nil {
		t.Fatalf("ListChoices: %v", err)
	}
	if len(choices) != 2 || choices[0].Order != 1 || choices[1].Order != 2 || choices[0].SurveyID != s.SurveyID {
		t.Fatalf("choices = %+v", choices)
	}

	// um novo respondente consegue concluir
	r := f.start(t, s.SurveyID, "E2")
	if _, err := f.uc.Responses.RecordAnswer(ctx, r.ResponseID, q.QuestionID, Answer{Text: strPtr("bom")}, "E2"); err != nil {
		t.Fatalf("RecordAnswer(text): %v", err)
	}
	if _, err := f.uc.Responses.RecordAnswer(ctx, r.ResponseID, single.QuestionID, Answer{ChoiceIDs: []int64{choices[0].ChoiceID}}, "E2"); err != nil {
		t.Fatalf("RecordAnswer(choice): %v", err)
	}
	if _, err := f.uc.Responses.CompleteResponse(ctx, r.ResponseID, "E2"); err != nil {
		t.Fatalf("CompleteResponse: %v", err)
	}
}

func TestAppendQuestionChoicesValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})

	cases := map[string]QuestionSpec{
		"choices on text": {Title: "x", Type: entities.QuestionText, Choices: []ChoiceSpec{{Title: "Sim"}}},
		"blank choice":    {Title: "x", Type: entities.QuestionSingleChoice, Choices: []ChoiceSpec{{Title: " "}}},
		"two etc choices": {Title: "x", Type: entities.QuestionMultipleChoice, Choices: []ChoiceSpec{{Title: "a", Etc: true}, {Title: "b", Etc: true}}},
		"negative score":  {Title: "x", Type: entities.QuestionSingleChoice, Choices: []ChoiceSpec{{Title: "a", Score: intPtr(-1)}}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Questions.AppendQuestion(ctx, s.SurveyID, spec, admin)
			wantKind(t, err, KindValidation)
		})
	}

	// em DRAFT a pergunta de escolha pode nascer vazia
	f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionSingleChoice})
}

func TestChoiceOrderingAndEtc(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionSingleChoice})

	c1 := f.choice(t, q.QuestionID, ChoiceSpec{Title: "1", Score: intPtr(1)})
	c2 := f.choice(t, q.QuestionID, ChoiceSpec{Title: "2", Score: intPtr(2)})
	etc := f.choice(t, q.QuestionID, ChoiceSpec{Title: "Outros", Etc: true})
	if c1.Order != 1 || c2.Order != 2 || etc.Order != 3 {
		t.Fatalf("orders = %d %d %d, want 1 2 3", c1.Order, c2.Order, etc.Order)
	}
	if c1.SurveyID != s.SurveyID {
		t.Fatalf("choice survey = %d, want %d", c1.SurveyID, s.SurveyID)
	}

	_, err := f.uc.Choices.AppendChoice(ctx, q.QuestionID, ChoiceSpec{Title: "Outro outros", Etc: true}, admin)
	wantKind(t, err, KindValidation)
	_, err = f.uc.Choices.UpdateChoice(ctx, c1.ChoiceID, ChoiceSpec{Title: "1", Etc: true}, admin)
	wantKind(t, err, KindValidation)
	// a própria escolha outros pode ser editada
	if _, err := f.uc.Choices.UpdateChoice(ctx, etc.ChoiceID, ChoiceSpec{Title: "Outro", Etc: true}, admin); err != nil {
		t.Fatalf("UpdateChoice(etc): %v", err)
	}

	choices, err := f.uc.Choices.ReorderChoice(ctx, q.QuestionID, etc.ChoiceID, 1, admin)
	if err != nil {
		t.Fatalf("ReorderChoice: %v", err)
	}
	want := []int64{etc.ChoiceID, c1.ChoiceID, c2.ChoiceID}
	for i, c := range choices {
		if c.ChoiceID != want[i] || c.Order != i+1 {
			t.Fatalf("choice[%d] = %d@%d, want %d@%d", i, c.ChoiceID, c.Order, want[i], i+1)
		}
	}

	if err := f.uc.Choices.DeleteChoice(ctx, c1.ChoiceID, admin); err != nil {
		t.Fatalf("DeleteChoice: %v", err)
	}
	choices, err = f.uc.Choices.ListChoices(ctx, q.QuestionID)
	if err != nil {
		t.Fatalf("ListChoices: %v", err)
	}
	if len(choices) != 2 || choices[0].ChoiceID != etc.ChoiceID || choices[1].ChoiceID != c2.ChoiceID || choices[1].Order != 2 {
		t.Fatalf("choices after delete = %+v", choices)
	}
}

func TestChoiceRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.survey(t, SurveyDefinition{})
	text := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	single := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionSingleChoice})
	only := f.choice(t, single.QuestionID, ChoiceSpec{Title: "única"})

	_, err := f.uc.Choices.AppendChoice(ctx, text.QuestionID, ChoiceSpec{Title: "x"}, admin)
	wantKind(t, err, KindValidation)
	_, err = f.uc.Choices.AppendChoice(ctx, single.QuestionID, ChoiceSpec{Title: "x", Score: intPtr(-2)}, admin)
	wantKind(t, err, KindValidation)
	_, err = f.uc.Choices.AppendChoice(ctx, single.QuestionID, ChoiceSpec{Title: " "}, admin)
	wantKind(t, err, KindValidation)

	f.activate(t, s.SurveyID)
	err = f.uc.Choices.DeleteChoice(ctx, only.ChoiceID, admin)
	wantKind(t, err, KindInvalidStateTransition)
}
