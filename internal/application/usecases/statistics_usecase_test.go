package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func choiceDetail(responseID, questionID, choiceID int64) entities.ResponseDetail {
	id := choiceID
	return entities.ResponseDetail{ResponseID: responseID, QuestionID: questionID, ChoiceID: &id}
}

func scoreDetail(responseID, questionID int64, score int) entities.ResponseDetail {
	s := score
	return entities.ResponseDetail{ResponseID: responseID, QuestionID: questionID, Score: &s}
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	questions := []entities.Question{
		{QuestionID: 2, Type: entities.QuestionSingleChoice, Choices: []entities.Choice{{ChoiceID: 22}, {ChoiceID: 21}}},
		{QuestionID: 1, Type: entities.QuestionScale},
	}
	completed := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	var details []entities.ResponseDetail
	for i, score := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		details = append(details, scoreDetail(int64(i+1), 1, score))
	}
	details = append(details,
		choiceDetail(1, 2, 21),
		choiceDetail(2, 2, 21),
		choiceDetail(3, 2, 21),
		choiceDetail(4, 2, 22),
		// resposta não concluída fica de fora
		choiceDetail(99, 2, 22),
		scoreDetail(99, 1, 100),
	)

	stats := aggregate(10, questions, completed, details, now)
	if len(stats) != 4 {
		t.Fatalf("rows = %d, want 4", len(stats))
	}

	q1 := stats[0]
	if q1.QuestionID != 1 || q1.HasChoice() {
		t.Fatalf("first row = q%d, want question 1 row", q1.QuestionID)
	}
	if q1.ResponseCount != 8 || q1.TotalResponses != 8 || !q1.ResponseRate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("q1 counts = %d/%d rate %s", q1.ResponseCount, q1.TotalResponses, q1.ResponseRate)
	}
	checks := map[string]struct {
		got  decimal.NullDecimal
		want string
	}{
		"avg": {q1.AvgScore, "5"},
		"min": {q1.MinScore, "2"},
		"max": {q1.MaxScore, "9"},
		"std": {q1.StdDevScore, "2"},
	}
	for name, c := range checks {
		if !c.got.Valid || !c.got.Decimal.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s = %v, want %s", name, c.got, c.want)
		}
	}

	q2 := stats[1]
	if q2.QuestionID != 2 || q2.HasChoice() || q2.ResponseCount != 4 || !q2.ResponseRate.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("q2 row = %+v", q2)
	}
	if q2.HasScore() {
		t.Fatalf("unscored question got score figures")
	}

	c21, c22 := stats[2], stats[3]
	if *c21.ChoiceID != 21 || c21.ResponseCount != 3 || !c21.ResponseRate.Equal(decimal.RequireFromString("0.375")) {
		t.Fatalf("choice 21 = %+v", c21)
	}
	if *c22.ChoiceID != 22 || c22.ResponseCount != 1 || !c22.ResponseRate.Equal(decimal.RequireFromString("0.125")) {
		t.Fatalf("choice 22 = %+v", c22)
	}
	for _, s := range stats {
		if s.SurveyID != 10 || !s.LastUpdatedAt.Equal(now) {
			t.Fatalf("row identity = %d at %v", s.SurveyID, s.LastUpdatedAt)
		}
	}
}

func TestAggregateWithoutResponses(t *testing.T) {
	questions := []entities.Question{
		{QuestionID: 1, Type: entities.QuestionMultipleChoice, Choices: []entities.Choice{{ChoiceID: 11}}},
	}
	stats := aggregate(1, questions, nil, nil, time.Now())
	if len(stats) != 2 {
		t.Fatalf("rows = %d, want 2", len(stats))
	}
	for _, s := range stats {
		if s.ResponseCount != 0 || s.TotalResponses != 0 || !s.ResponseRate.IsZero() || s.HasScore() {
			t.Fatalf("row = %+v, want empty figures", s)
		}
	}
}

func TestScoreAccumulatorRoundsStdDev(t *testing.T) {
	var acc scoreAccumulator
	for _, v := range []int{1, 2, 2} {
		acc.add(v)
	}
	var s entities.Statistics
	acc.fill(&s)
	if !s.AvgScore.Decimal.Equal(decimal.RequireFromString("1.6667")) {
		t.Fatalf("avg = %s, want 1.6667", s.AvgScore.Decimal)
	}
	if !s.StdDevScore.Decimal.Equal(decimal.RequireFromString("0.4714")) {
		t.Fatalf("std = %s, want 0.4714", s.StdDevScore.Decimal)
	}
}

func completeWith(t *testing.T, f *fixture, surveyID, questionID int64, empID string, answer Answer) {
	t.Helper()
	ctx := context.Background()
	r := f.start(t, surveyID, empID)
	if _, err := f.uc.Responses.RecordAnswer(ctx, r.ResponseID, questionID, answer, empID); err != nil {
		t.Fatalf("RecordAnswer(%s): %v", empID, err)
	}
	if _, err := f.uc.Responses.CompleteResponse(ctx, r.ResponseID, empID); err != nil {
		t.Fatalf("CompleteResponse(%s): %v", empID, err)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionSingleChoice, Scored: true})
	c1 := f.choice(t, q.QuestionID, ChoiceSpec{Title: "1", Score: intPtr(1)})
	c2 := f.choice(t, q.QuestionID, ChoiceSpec{Title: "3", Score: intPtr(3)})
	c3 := f.choice(t, q.QuestionID, ChoiceSpec{Title: "5", Score: intPtr(5)})
	f.activate(t, s.SurveyID)

	completeWith(t, f, s.SurveyID, q.QuestionID, "E1", Answer{ChoiceIDs: []int64{c1.ChoiceID}})
	completeWith(t, f, s.SurveyID, q.QuestionID, "E2", Answer{ChoiceIDs: []int64{c2.ChoiceID}})

	first, err := f.uc.Statistics.Recompute(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	firstAt := f.now
	if len(first) != 4 {
		t.Fatalf("rows = %d, want 4", len(first))
	}
	if !first[0].AvgScore.Valid || !first[0].AvgScore.Decimal.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("avg = %v, want 2", first[0].AvgScore)
	}

	f.now = f.now.Add(time.Hour)
	second, err := f.uc.Statistics.Recompute(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("Recompute again: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("rows = %d, want %d", len(second), len(first))
	}
	for i := range second {
		if second[i].StatID != first[i].StatID {
			t.Fatalf("row %d replaced: id %d -> %d", i, first[i].StatID, second[i].StatID)
		}
		if !second[i].LastUpdatedAt.Equal(firstAt) {
			t.Fatalf("row %d touched: last updated %v, want %v", i, second[i].LastUpdatedAt, firstAt)
		}
		if !second[i].SameFigures(&first[i]) {
			t.Fatalf("row %d figures changed", i)
		}
	}

	// escolha removida: a linha dela some, as demais ficam intactas
	if err := f.uc.Choices.DeleteChoice(ctx, c3.ChoiceID, admin); err != nil {
		t.Fatalf("DeleteChoice: %v", err)
	}
	f.now = f.now.Add(time.Hour)
	third, err := f.uc.Statistics.Recompute(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("Recompute after delete: %v", err)
	}
	if len(third) != 3 {
		t.Fatalf("rows = %d, want 3", len(third))
	}
	for _, row := range third {
		if row.ChoiceID != nil && *row.ChoiceID == c3.ChoiceID {
			t.Fatalf("stale row for deleted choice kept")
		}
		if !row.LastUpdatedAt.Equal(firstAt) {
			t.Fatalf("unchanged row rewritten at %v", row.LastUpdatedAt)
		}
	}
	stored, err := f.store.Statistics().ListBySurvey(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("ListBySurvey: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("stored rows = %d, want 3", len(stored))
	}

	// nova resposta muda o total e reescreve as linhas
	completeWith(t, f, s.SurveyID, q.QuestionID, "E3", Answer{ChoiceIDs: []int64{c1.ChoiceID}})
	fourth, err := f.uc.Statistics.Recompute(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("Recompute after response: %v", err)
	}
	for _, row := range fourth {
		if row.TotalResponses != 3 || !row.LastUpdatedAt.Equal(f.now) {
			t.Fatalf("row = total %d at %v, want total 3 at %v", row.TotalResponses, row.LastUpdatedAt, f.now)
		}
	}
}

func TestGetStatisticsUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.activate(t, s.SurveyID)
	completeWith(t, f, s.SurveyID, q.QuestionID, "E1", Answer{Text: strPtr("ok")})

	// sem recálculo não há linhas gravadas
	empty, err := f.uc.Statistics.GetStatistics(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("rows before recompute = %d", len(empty))
	}

	if _, err := f.uc.Statistics.Recompute(ctx, s.SurveyID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	hits := f.cache.hits
	stats, err := f.uc.Statistics.GetStatistics(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if f.cache.hits != hits+1 {
		t.Fatalf("cache hits = %d, want %d", f.cache.hits, hits+1)
	}
	if len(stats) != 1 || stats[0].ResponseCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if err := f.cache.Invalidate(ctx, s.SurveyID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	fromStore, err := f.uc.Statistics.GetStatistics(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("GetStatistics after invalidate: %v", err)
	}
	if len(fromStore) != 1 || fromStore[0].StatID == 0 {
		t.Fatalf("stored stats = %+v", fromStore)
	}

	_, err = f.uc.Statistics.Recompute(ctx, 9999)
	wantKind(t, err, KindNotFound)
}

func TestSoftDeletedSurveyHasNoStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.activate(t, s.SurveyID)
	completeWith(t, f, s.SurveyID, q.QuestionID, "E1", Answer{Text: strPtr("ok")})

	if _, err := f.uc.Statistics.Recompute(ctx, s.SurveyID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if _, ok := f.cache.entries[s.SurveyID]; !ok {
		t.Fatalf("statistics not cached after recompute")
	}

	if err := f.uc.Surveys.SoftDelete(ctx, s.SurveyID, admin); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, ok := f.cache.entries[s.SurveyID]; ok {
		t.Fatalf("cached statistics survived soft delete")
	}

	_, err := f.uc.Statistics.GetStatistics(ctx, s.SurveyID)
	wantKind(t, err, KindNotFound)
}

// racingStore simula um recálculo concorrente que grava a mesma linha antes
type racingStore struct {
	repositories.Store
	collisions *int
}

func (s racingStore) Statistics() repositories.IStatisticsRepository {
	return racingStatistics{IStatisticsRepository: s.Store.Statistics(), collisions: s.collisions}
}

func (s racingStore) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repositories.Store) error {
		return fn(racingStore{Store: tx, collisions: s.collisions})
	})
}

type racingStatistics struct {
	repositories.IStatisticsRepository
	collisions *int
}

func (r racingStatistics) Save(ctx context.Context, stat *entities.Statistics) error {
	if *r.collisions > 0 {
		*r.collisions--
		return gorm.ErrDuplicatedKey
	}
	return r.IStatisticsRepository.Save(ctx, stat)
}

func TestRecomputeRetriesConcurrentWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.survey(t, SurveyDefinition{})
	q := f.question(t, s.SurveyID, QuestionSpec{Type: entities.QuestionText})
	f.activate(t, s.SurveyID)
	completeWith(t, f, s.SurveyID, q.QuestionID, "E1", Answer{Text: strPtr("ok")})

	collisions := 1
	uc := NewStatisticsUseCase(racingStore{Store: f.store, collisions: &collisions}, nil, Options{Now: f.clock})
	stats, err := uc.Recompute(ctx, s.SurveyID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(stats) != 1 || stats[0].StatID == 0 {
		t.Fatalf("stats = %+v", stats)
	}

	// a colisão persistente ainda é reportada
	collisions = 2
	f.now = f.now.Add(time.Hour)
	completeWith(t, f, s.SurveyID, q.QuestionID, "E2", Answer{Text: strPtr("bom")})
	_, err = uc.Recompute(ctx, s.SurveyID)
	wantKind(t, err, KindOrderConflict)
}
