package routes

import (
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/handlers"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, actorMiddleware fiber.Handler) {
	groups := middleware.SetupRouteGroups(app, actorMiddleware)

	// Health check
	groups.Public.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	setupSurveyRoutes(groups.API, h)
	setupQuestionRoutes(groups.API, h.Questions)
	setupResponseRoutes(groups.API, h.Responses)
}

func setupSurveyRoutes(router fiber.Router, h *handlers.Handlers) {
	surveys := router.Group("/surveys")
	surveys.Get("/", h.Surveys.GetSurveys)
	surveys.Post("/", h.Surveys.CreateSurvey)
	// registrada antes de /:id
	surveys.Get("/active", h.Surveys.GetActiveSurveys)
	surveys.Get("/:id", h.Surveys.GetSurvey)
	surveys.Put("/:id", h.Surveys.UpdateSurvey)
	surveys.Delete("/:id", h.Surveys.DeleteSurvey)
	surveys.Post("/:id/activate", h.Surveys.Activate)
	surveys.Post("/:id/close", h.Surveys.Close)
	surveys.Post("/:id/archive", h.Surveys.Archive)

	surveys.Get("/:id/questions", h.Questions.ListQuestions)
	surveys.Post("/:id/questions", h.Questions.AppendQuestion)
	surveys.Put("/:id/questions/:questionId/order", h.Questions.ReorderQuestion)

	surveys.Get("/:id/targets", h.Targets.ListTargets)
	surveys.Post("/:id/targets", h.Targets.AddTarget)
	surveys.Delete("/:id/targets/:targetId", h.Targets.RemoveTarget)
	surveys.Get("/:id/respondents", h.Targets.ResolveRespondents)
	surveys.Get("/:id/eligibility/:empId", h.Targets.IsEligible)

	surveys.Get("/:id/responses", h.Responses.ListResponses)
	surveys.Post("/:id/responses", h.Responses.StartResponse)

	surveys.Get("/:id/statistics", h.Statistics.GetStatistics)
	surveys.Post("/:id/statistics/recompute", h.Statistics.Recompute)
}

func setupQuestionRoutes(router fiber.Router, h *handlers.QuestionHandler) {
	questions := router.Group("/questions")
	questions.Get("/:id", h.GetQuestion)
	questions.Put("/:id", h.UpdateQuestion)
	questions.Delete("/:id", h.DeleteQuestion)
	questions.Get("/:id/choices", h.ListChoices)
	questions.Post("/:id/choices", h.AppendChoice)
	questions.Put("/:id/choices/:choiceId/order", h.ReorderChoice)

	choices := router.Group("/choices")
	choices.Put("/:id", h.UpdateChoice)
	choices.Delete("/:id", h.DeleteChoice)
}

func setupResponseRoutes(router fiber.Router, h *handlers.ResponseHandler) {
	responses := router.Group("/responses")
	responses.Get("/:id", h.GetResponse)
	responses.Put("/:id/answers/:questionId", h.RecordAnswer)
	responses.Delete("/:id/answers/:questionId", h.ClearAnswer)
	responses.Post("/:id/complete", h.CompleteResponse)
	responses.Post("/:id/abandon", h.Abandon)
}
