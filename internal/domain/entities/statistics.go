package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statistics representa o agregado de uma pergunta, ou de uma escolha quando ChoiceID está preenchido (tb_surv_stat).
// As linhas são refeitas pelo recálculo e nunca editadas à mão.
type Statistics struct {
	StatID         int64               `json:"-" gorm:"primaryKey;column:stat_seq"`
	SurveyID       int64               `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	QuestionID     int64               `json:"question_id" gorm:"column:qst_seq;not null"`
	ChoiceID       *int64              `json:"choice_id,omitempty" gorm:"column:chc_seq"`
	ResponseCount  int                 `json:"response_count" gorm:"column:resp_cnt;not null"`
	TotalResponses int                 `json:"total_responses" gorm:"column:tot_resp_cnt;not null"`
	ResponseRate   decimal.Decimal     `json:"response_rate" gorm:"column:resp_rate;type:numeric(7,4);not null"`
	AvgScore       decimal.NullDecimal `json:"avg_score" gorm:"column:avg_scr;type:numeric(12,4)"`
	MinScore       decimal.NullDecimal `json:"min_score" gorm:"column:min_scr;type:numeric(12,4)"`
	MaxScore       decimal.NullDecimal `json:"max_score" gorm:"column:max_scr;type:numeric(12,4)"`
	StdDevScore    decimal.NullDecimal `json:"std_dev_score" gorm:"column:std_dev_scr;type:numeric(12,4)"`
	LastUpdatedAt  time.Time           `json:"last_updated_at" gorm:"column:last_upd_dt;not null"`
}

func (Statistics) TableName() string { return "tb_surv_stat" }

func (s *Statistics) HasChoice() bool { return s.ChoiceID != nil }

func (s *Statistics) HasScore() bool {
	return s.AvgScore.Valid || s.MinScore.Valid || s.MaxScore.Valid
}

// ResponseRatePercentage retorna a taxa na escala 0..100
func (s *Statistics) ResponseRatePercentage() decimal.Decimal {
	return s.ResponseRate.Mul(decimal.NewFromInt(100))
}

// SameFigures compara os valores agregados de duas linhas, ignorando ID e datas
func (s *Statistics) SameFigures(o *Statistics) bool {
	return s.ResponseCount == o.ResponseCount &&
		s.TotalResponses == o.TotalResponses &&
		s.ResponseRate.Equal(o.ResponseRate) &&
		sameNull(s.AvgScore, o.AvgScore) &&
		sameNull(s.MinScore, o.MinScore) &&
		sameNull(s.MaxScore, o.MaxScore) &&
		sameNull(s.StdDevScore, o.StdDevScore)
}

func sameNull(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
