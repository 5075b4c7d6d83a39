package usecases

import (
	"math"
	"sort"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/shopspring/decimal"
)

const statisticsScale = 4

// statKey identifica uma linha de estatística: pergunta e, opcionalmente, escolha
type statKey struct {
	questionID int64
	choiceID   int64
}

func keyOf(s entities.Statistics) statKey {
	k := statKey{questionID: s.QuestionID}
	if s.ChoiceID != nil {
		k.choiceID = *s.ChoiceID
	}
	return k
}

// scoreAccumulator acumula as somas necessárias para média e desvio padrão populacional
type scoreAccumulator struct {
	n     int64
	sum   int64
	sumSq int64
	min   int64
	max   int64
}

func (a *scoreAccumulator) add(v int) {
	x := int64(v)
	if a.n == 0 || x < a.min {
		a.min = x
	}
	if a.n == 0 || x > a.max {
		a.max = x
	}
	a.n++
	a.sum += x
	a.sumSq += x * x
}

func (a *scoreAccumulator) fill(s *entities.Statistics) {
	if a.n == 0 {
		return
	}
	n := decimal.NewFromInt(a.n)
	s.AvgScore = decimal.NewNullDecimal(decimal.NewFromInt(a.sum).Div(n).Round(statisticsScale))
	s.MinScore = decimal.NewNullDecimal(decimal.NewFromInt(a.min))
	s.MaxScore = decimal.NewNullDecimal(decimal.NewFromInt(a.max))

	// variância = (n·Σx² − (Σx)²) / n², exata em inteiros antes da raiz
	num := a.n*a.sumSq - a.sum*a.sum
	den := a.n * a.n
	std := math.Sqrt(float64(num) / float64(den))
	s.StdDevScore = decimal.NewNullDecimal(decimal.NewFromFloat(std).Round(statisticsScale))
}

func responseRate(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total))).Round(statisticsScale)
}

// aggregate calcula as estatísticas de uma pesquisa. É uma função pura: a mesma entrada
// produz sempre as mesmas linhas, na ordem (pergunta, escolha) com a linha da pergunta primeiro.
// Itens de respostas fora de completedIDs são ignorados.
func aggregate(surveyID int64, questions []entities.Question, completedIDs []int64, details []entities.ResponseDetail, now time.Time) []entities.Statistics {
	eligible := make(map[int64]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		eligible[id] = struct{}{}
	}
	total := len(eligible)

	questionResponses := make(map[int64]map[int64]struct{})
	choiceResponses := make(map[int64]map[int64]struct{})
	scores := make(map[int64]*scoreAccumulator)

	for _, d := range details {
		if _, ok := eligible[d.ResponseID]; !ok {
			continue
		}
		markResponse(questionResponses, d.QuestionID, d.ResponseID)
		if d.ChoiceID != nil {
			markResponse(choiceResponses, *d.ChoiceID, d.ResponseID)
		}
		if d.Score != nil {
			acc, ok := scores[d.QuestionID]
			if !ok {
				acc = &scoreAccumulator{}
				scores[d.QuestionID] = acc
			}
			acc.add(*d.Score)
		}
	}

	var stats []entities.Statistics
	for _, q := range questions {
		row := entities.Statistics{
			SurveyID:       surveyID,
			QuestionID:     q.QuestionID,
			ResponseCount:  len(questionResponses[q.QuestionID]),
			TotalResponses: total,
			LastUpdatedAt:  now,
		}
		row.ResponseRate = responseRate(row.ResponseCount, total)
		if acc, ok := scores[q.QuestionID]; ok && q.CollectsScores() {
			acc.fill(&row)
		}
		stats = append(stats, row)

		if !q.Type.IsChoice() {
			continue
		}
		for _, c := range q.Choices {
			choiceID := c.ChoiceID
			count := len(choiceResponses[choiceID])
			stats = append(stats, entities.Statistics{
				SurveyID:       surveyID,
				QuestionID:     q.QuestionID,
				ChoiceID:       &choiceID,
				ResponseCount:  count,
				TotalResponses: total,
				ResponseRate:   responseRate(count, total),
				LastUpdatedAt:  now,
			})
		}
	}

	sortStatistics(stats)
	return stats
}

func markResponse(index map[int64]map[int64]struct{}, key, responseID int64) {
	set, ok := index[key]
	if !ok {
		set = make(map[int64]struct{})
		index[key] = set
	}
	set[responseID] = struct{}{}
}

func sortStatistics(stats []entities.Statistics) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := keyOf(stats[i]), keyOf(stats[j])
		if a.questionID != b.questionID {
			return a.questionID < b.questionID
		}
		return a.choiceID < b.choiceID
	})
}
