package usecases

import (
	"context"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// Directory resolve funcionários por departamento, cargo ou matrícula
type Directory interface {
	AllEmployees(ctx context.Context) ([]entities.Employee, error)
	FindEmployee(ctx context.Context, empID string) (*entities.Employee, error)
	EmployeesByDepartment(ctx context.Context, deptCode string) ([]entities.Employee, error)
	EmployeesByPosition(ctx context.Context, positionCode string) ([]entities.Employee, error)
}

// StatisticsCache guarda o último resultado de estatísticas por pesquisa
type StatisticsCache interface {
	Get(ctx context.Context, surveyID int64) ([]entities.Statistics, bool, error)
	Set(ctx context.Context, surveyID int64, stats []entities.Statistics) error
	Invalidate(ctx context.Context, surveyID int64) error
}

// Options configura os casos de uso
type Options struct {
	StoreTimeout    time.Duration
	Location        *time.Location
	AnonymousSecret string
	Now             func() time.Time
}

// base é embutida em todos os casos de uso
type base struct {
	store    repositories.Store
	timeout  time.Duration
	location *time.Location
	now      func() time.Time
}

func newBase(store repositories.Store, opts Options) base {
	b := base{
		store:    store,
		timeout:  opts.StoreTimeout,
		location: opts.Location,
		now:      opts.Now,
	}
	if b.timeout <= 0 {
		b.timeout = 5 * time.Second
	}
	if b.location == nil {
		b.location = time.UTC
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// run executa fn com tempo limite e traduz o erro para o domínio
func (b base) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return translate(fn(ctx))
}

// tx executa fn dentro de uma transação com tempo limite
func (b base) tx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return b.run(ctx, func(ctx context.Context) error {
		return b.store.Transaction(ctx, func(tx repositories.Store) error {
			return fn(ctx, tx)
		})
	})
}

func (b base) clock() time.Time {
	return b.now().In(b.location)
}

func requireActor(actor string) error {
	if actor == "" {
		return validationError("ator obrigatório")
	}
	return nil
}

// UseCases agrupa todos os casos de uso da aplicação
type UseCases struct {
	Surveys    *SurveyUseCase
	Questions  *QuestionUseCase
	Choices    *ChoiceUseCase
	Responses  *ResponseUseCase
	Statistics *StatisticsUseCase
	Targets    *TargetUseCase
}

// New cria os casos de uso sobre o store informado
func New(store repositories.Store, directory Directory, cache StatisticsCache, opts Options) *UseCases {
	targets := NewTargetUseCase(store, directory, opts)
	return &UseCases{
		Surveys:    NewSurveyUseCase(store, cache, opts),
		Questions:  NewQuestionUseCase(store, opts),
		Choices:    NewChoiceUseCase(store, opts),
		Responses:  NewResponseUseCase(store, targets, directory, opts),
		Statistics: NewStatisticsUseCase(store, cache, opts),
		Targets:    targets,
	}
}
