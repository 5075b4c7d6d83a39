package handlers

import (
	"time"

	"github.com/PavaniTiago/survey-api/internal/application/usecases"
)

type Handlers struct {
	Surveys    *SurveyHandler
	Questions  *QuestionHandler
	Targets    *TargetHandler
	Responses  *ResponseHandler
	Statistics *StatisticsHandler
}

func NewHandlers(useCases *usecases.UseCases, location *time.Location) *Handlers {
	return &Handlers{
		Surveys:    NewSurveyHandler(useCases.Surveys, location),
		Questions:  NewQuestionHandler(useCases.Questions, useCases.Choices),
		Targets:    NewTargetHandler(useCases.Targets),
		Responses:  NewResponseHandler(useCases.Responses),
		Statistics: NewStatisticsHandler(useCases.Statistics),
	}
}
