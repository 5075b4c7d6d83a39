package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Survey representa uma pesquisa no sistema (tb_surv_mst)
type Survey struct {
	SurveyID           int64        `json:"survey_id" gorm:"primaryKey;column:surv_seq"`
	Title              string       `json:"title" gorm:"column:surv_ttl;size:200;not null"`
	Description        string       `json:"description" gorm:"column:surv_desc;type:text"`
	Type               SurveyType   `json:"type" gorm:"column:surv_ty_cd;size:30;not null"`
	Status             SurveyStatus `json:"status" gorm:"column:surv_sts_cd;size:20;not null;index"`
	StartDate          *time.Time   `json:"start_date,omitempty" gorm:"column:surv_stt_dt;type:date"`
	EndDate            *time.Time   `json:"end_date,omitempty" gorm:"column:surv_end_dt;type:date"`
	DurationMinutes    *int         `json:"duration_minutes,omitempty" gorm:"column:surv_dur_min"`
	Anonymous          YN           `json:"anonymous" gorm:"column:anon_yn;type:char(1);not null;default:'N'"`
	DuplicateAllowed   YN           `json:"duplicate_allowed" gorm:"column:dupl_yn;type:char(1);not null;default:'N'"`
	MaxResponses       *int         `json:"max_responses,omitempty" gorm:"column:max_resp_cnt"`
	TargetEmployeeType string       `json:"target_employee_type" gorm:"column:tgt_emp_ty_cd;size:30"`
	FileAttached       YN           `json:"file_attached" gorm:"column:file_att_yn;type:char(1);not null;default:'N'"`
	ResponseCount      int          `json:"response_count" gorm:"column:resp_cnt;not null;default:0"`
	OrderVersion       int          `json:"-" gorm:"column:ord_version;not null;default:0"`
	StatusChangedAt    *time.Time   `json:"status_changed_at,omitempty" gorm:"column:sts_chg_dt"`
	StatusChangedBy    string       `json:"status_changed_by,omitempty" gorm:"column:sts_chg_emp_id;size:50"`
	Audit

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SurveyID"`
	Targets   []Target   `json:"targets,omitempty" gorm:"foreignKey:SurveyID"`
}

func (Survey) TableName() string { return "tb_surv_mst" }

func (s *Survey) IsActive() bool   { return s.Status == SurveyActive }
func (s *Survey) IsDraft() bool    { return s.Status == SurveyDraft }
func (s *Survey) IsClosed() bool   { return s.Status == SurveyClosed }
func (s *Survey) IsArchived() bool { return s.Status == SurveyArchived }

func (s *Survey) IsAnonymous() bool        { return bool(s.Anonymous) }
func (s *Survey) IsDuplicateAllowed() bool { return bool(s.DuplicateAllowed) }
func (s *Survey) HasFileAttachment() bool  { return bool(s.FileAttached) }

// HasResponseLimit indica se max_resp_cnt limita as respostas concluídas
func (s *Survey) HasResponseLimit() bool {
	return s.MaxResponses != nil && *s.MaxResponses > 0
}

// OpenOn indica se o dia está dentro do período da pesquisa. Limites ausentes ficam em aberto.
func (s *Survey) OpenOn(day time.Time) bool {
	d := truncateDay(day)
	if s.StartDate != nil && d.Before(truncateDay(s.StartDate.In(day.Location()))) {
		return false
	}
	if s.EndDate != nil && d.After(truncateDay(s.EndDate.In(day.Location()))) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Question representa uma pergunta da pesquisa (tb_surv_qst)
type Question struct {
	QuestionID    int64               `json:"question_id" gorm:"primaryKey;column:qst_seq"`
	SurveyID      int64               `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	Title         string              `json:"title" gorm:"column:qst_ttl;size:500;not null"`
	Description   string              `json:"description" gorm:"column:qst_desc;type:text"`
	Type          QuestionType        `json:"type" gorm:"column:qst_ty_cd;size:30;not null"`
	Order         int                 `json:"order" gorm:"column:qst_ord;not null"`
	Required      YN                  `json:"required" gorm:"column:req_yn;type:char(1);not null;default:'N'"`
	SkipLogic     YN                  `json:"skip_logic" gorm:"column:skip_lgc_yn;type:char(1);not null;default:'N'"`
	SkipCondition datatypes.JSON      `json:"skip_condition,omitempty" gorm:"column:skip_cond"`
	Scored        YN                  `json:"scored" gorm:"column:scr_yn;type:char(1);not null;default:'N'"`
	ScoreWeight   decimal.NullDecimal `json:"score_weight" gorm:"column:scr_weight;type:numeric(7,3)"`
	OrderVersion  int                 `json:"-" gorm:"column:ord_version;not null;default:0"`
	Audit

	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string { return "tb_surv_qst" }

func (q *Question) IsRequired() bool       { return bool(q.Required) }
func (q *Question) HasSkipLogic() bool     { return bool(q.SkipLogic) }
func (q *Question) HasScore() bool         { return bool(q.Scored) }
func (q *Question) IsSingleChoice() bool   { return q.Type == QuestionSingleChoice }
func (q *Question) IsMultipleChoice() bool { return q.Type == QuestionMultipleChoice }
func (q *Question) IsText() bool           { return q.Type == QuestionText }
func (q *Question) IsScale() bool          { return q.Type == QuestionScale }

// CollectsScores indica se as estatísticas agregam a pontuação desta pergunta
func (q *Question) CollectsScores() bool {
	return q.HasScore() || q.IsScale()
}

// Choice representa uma opção de uma pergunta de escolha (tb_surv_chc)
type Choice struct {
	ChoiceID    int64  `json:"choice_id" gorm:"primaryKey;column:chc_seq"`
	QuestionID  int64  `json:"question_id" gorm:"column:qst_seq;not null;index"`
	SurveyID    int64  `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	Title       string `json:"title" gorm:"column:chc_ttl;size:500;not null"`
	Description string `json:"description" gorm:"column:chc_desc;type:text"`
	Order       int    `json:"order" gorm:"column:chc_ord;not null"`
	Score       *int   `json:"score,omitempty" gorm:"column:chc_scr"`
	Value       string `json:"value" gorm:"column:chc_value;size:200"`
	Etc         YN     `json:"etc" gorm:"column:etc_yn;type:char(1);not null;default:'N'"`
	Audit
}

func (Choice) TableName() string { return "tb_surv_chc" }

// IsEtcChoice indica se é a opção "outros" com texto livre
func (c *Choice) IsEtcChoice() bool { return bool(c.Etc) }

func (c *Choice) HasScore() bool {
	return c.Score != nil && *c.Score > 0
}

// Target representa uma regra de público-alvo da pesquisa (tb_surv_tgt)
type Target struct {
	TargetID    int64      `json:"target_id" gorm:"primaryKey;column:tgt_seq"`
	SurveyID    int64      `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	Type        TargetType `json:"type" gorm:"column:tgt_ty_cd;size:20;not null"`
	Value       string     `json:"value" gorm:"column:tgt_value;size:100"`
	Description string     `json:"description" gorm:"column:tgt_desc;size:500"`
	Audit
}

func (Target) TableName() string { return "tb_surv_tgt" }

func (t *Target) IsAllEmployees() bool       { return t.Type == TargetAll }
func (t *Target) IsIndividualEmployee() bool { return t.Type == TargetEmployee }
func (t *Target) IsDepartment() bool         { return t.Type == TargetDepartment }
func (t *Target) IsPosition() bool           { return t.Type == TargetPosition }
