package entities

import (
	"strings"
	"time"
)

// Response representa a participação de um respondente em uma pesquisa (tb_surv_resp)
type Response struct {
	ResponseID      int64          `json:"response_id" gorm:"primaryKey;column:resp_seq"`
	SurveyID        int64          `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	RespondentKey   string         `json:"respondent_key" gorm:"column:emp_no;size:64;not null;index"`
	RespondentName  string         `json:"respondent_name,omitempty" gorm:"column:emp_nm;size:100"`
	DeptName        string         `json:"dept_name,omitempty" gorm:"column:dept_nm;size:100"`
	StartedAt       time.Time      `json:"started_at" gorm:"column:resp_stt_dt;not null"`
	EndedAt         *time.Time     `json:"ended_at,omitempty" gorm:"column:resp_end_dt"`
	DurationMinutes *int           `json:"duration_minutes,omitempty" gorm:"column:resp_dur_min"`
	Status          ResponseStatus `json:"status" gorm:"column:resp_sts_cd;size:20;not null;index"`
	Anonymous       YN             `json:"anonymous" gorm:"column:anon_yn;type:char(1);not null;default:'N'"`
	IPAddr          string         `json:"-" gorm:"column:ip_addr;size:64"`
	UserAgent       string         `json:"-" gorm:"column:user_agent;size:500"`
	Audit

	Details []ResponseDetail `json:"details,omitempty" gorm:"foreignKey:ResponseID"`
}

func (Response) TableName() string { return "tb_surv_resp" }

func (r *Response) IsAnonymous() bool  { return bool(r.Anonymous) }
func (r *Response) IsInProgress() bool { return r.Status == ResponseInProgress }
func (r *Response) IsCompleted() bool  { return r.Status == ResponseCompleted }
func (r *Response) IsAbandoned() bool  { return r.Status == ResponseAbandoned }

// Duration retorna os minutos entre início e fim, ou o valor gravado quando falta alguma data
func (r *Response) Duration() int {
	if r.EndedAt != nil && !r.StartedAt.IsZero() {
		return int(r.EndedAt.Sub(r.StartedAt).Minutes())
	}
	if r.DurationMinutes != nil {
		return *r.DurationMinutes
	}
	return 0
}

// ResponseDetail representa uma linha de resposta dentro de uma participação (tb_surv_resp_dtl)
type ResponseDetail struct {
	DetailID     int64   `json:"detail_id" gorm:"primaryKey;column:resp_dtl_seq"`
	ResponseID   int64   `json:"response_id" gorm:"column:resp_seq;not null;index"`
	SurveyID     int64   `json:"survey_id" gorm:"column:surv_seq;not null;index"`
	QuestionID   int64   `json:"question_id" gorm:"column:qst_seq;not null;index"`
	ChoiceID     *int64  `json:"choice_id,omitempty" gorm:"column:chc_seq"`
	TextResponse *string `json:"text_response,omitempty" gorm:"column:text_resp;type:text"`
	Order        int     `json:"order" gorm:"column:resp_ord;not null;default:1"`
	Score        *int    `json:"score,omitempty" gorm:"column:resp_scr"`
	Audit
}

func (ResponseDetail) TableName() string { return "tb_surv_resp_dtl" }

func (d *ResponseDetail) IsTextResponse() bool {
	return d.TextResponse != nil && strings.TrimSpace(*d.TextResponse) != ""
}

func (d *ResponseDetail) IsChoiceResponse() bool { return d.ChoiceID != nil }

func (d *ResponseDetail) HasScore() bool {
	return d.Score != nil && *d.Score > 0
}
