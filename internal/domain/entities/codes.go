package entities

// SurveyStatus é o ciclo de vida da pesquisa (surv_sts_cd)
type SurveyStatus string

const (
	SurveyDraft    SurveyStatus = "DRAFT"
	SurveyActive   SurveyStatus = "ACTIVE"
	SurveyClosed   SurveyStatus = "CLOSED"
	SurveyArchived SurveyStatus = "ARCHIVED"
)

var surveyStatusRank = map[SurveyStatus]int{
	SurveyDraft:    1,
	SurveyActive:   2,
	SurveyClosed:   3,
	SurveyArchived: 4,
}

// Rank retorna a posição do status no ciclo de vida, 0 quando desconhecido
func (s SurveyStatus) Rank() int {
	return surveyStatusRank[s]
}

func (s SurveyStatus) Valid() bool {
	return s.Rank() > 0
}

// CanTransitionTo permite somente um passo à frente
func (s SurveyStatus) CanTransitionTo(next SurveyStatus) bool {
	return s.Valid() && next.Valid() && next.Rank() == s.Rank()+1
}

// AcceptsStructureChanges indica se perguntas e escolhas ainda podem ser editadas
func (s SurveyStatus) AcceptsStructureChanges() bool {
	return s == SurveyDraft || s == SurveyActive
}

// SurveyType é o surv_ty_cd
type SurveyType string

const (
	SurveyHealthCheck  SurveyType = "HEALTH_CHECK"
	SurveySatisfaction SurveyType = "SATISFACTION"
	SurveyEtc          SurveyType = "ETC"
)

func (t SurveyType) Valid() bool {
	switch t {
	case SurveyHealthCheck, SurveySatisfaction, SurveyEtc:
		return true
	}
	return false
}

// QuestionType é o qst_ty_cd
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionText           QuestionType = "TEXT"
	QuestionScale          QuestionType = "SCALE"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionText, QuestionScale:
		return true
	}
	return false
}

// IsChoice indica se as respostas referenciam escolhas
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultipleChoice
}

// ResponseStatus é o resp_sts_cd
type ResponseStatus string

const (
	ResponseInProgress ResponseStatus = "IN_PROGRESS"
	ResponseCompleted  ResponseStatus = "COMPLETED"
	ResponseAbandoned  ResponseStatus = "ABANDONED"
)

func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponseInProgress, ResponseCompleted, ResponseAbandoned:
		return true
	}
	return false
}

// IsFinal indica que a resposta não admite mais transições
func (s ResponseStatus) IsFinal() bool {
	return s == ResponseCompleted || s == ResponseAbandoned
}

// TargetType é o tgt_ty_cd
type TargetType string

const (
	TargetEmployee   TargetType = "EMP_ID"
	TargetDepartment TargetType = "DEPT_CD"
	TargetPosition   TargetType = "POSITION_CD"
	TargetAll        TargetType = "ALL"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetEmployee, TargetDepartment, TargetPosition, TargetAll:
		return true
	}
	return false
}
