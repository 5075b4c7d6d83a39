package repositories

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrVersionConflict indica que outro processo alterou a ordenação primeiro
	ErrVersionConflict = errors.New("versão de ordenação desatualizada")
	// ErrStaleState indica que a linha não estava mais no estado esperado
	ErrStaleState = errors.New("registro não está no estado esperado")
)

// Store é a fronteira de persistência usada pelos casos de uso
type Store interface {
	Surveys() ISurveyRepository
	Questions() IQuestionRepository
	Choices() IChoiceRepository
	Responses() IResponseRepository
	Details() IResponseDetailRepository
	Statistics() IStatisticsRepository
	Targets() ITargetRepository

	// Transaction executa fn em uma única transação; qualquer erro faz rollback
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GormStore implementa Store sobre uma conexão gorm
type GormStore struct {
	db        *gorm.DB
	isolation sql.IsolationLevel

	surveys    *SurveyRepository
	questions  *QuestionRepository
	choices    *ChoiceRepository
	responses  *ResponseRepository
	details    *ResponseDetailRepository
	statistics *StatisticsRepository
	targets    *TargetRepository
}

// NewStore cria uma nova instância de GormStore
func NewStore(db *gorm.DB, isolation sql.IsolationLevel) *GormStore {
	return &GormStore{
		db:         db,
		isolation:  isolation,
		surveys:    NewSurveyRepository(db),
		questions:  NewQuestionRepository(db),
		choices:    NewChoiceRepository(db),
		responses:  NewResponseRepository(db),
		details:    NewResponseDetailRepository(db),
		statistics: NewStatisticsRepository(db),
		targets:    NewTargetRepository(db),
	}
}

func (s *GormStore) Surveys() ISurveyRepository         { return s.surveys }
func (s *GormStore) Questions() IQuestionRepository     { return s.questions }
func (s *GormStore) Choices() IChoiceRepository         { return s.choices }
func (s *GormStore) Responses() IResponseRepository     { return s.responses }
func (s *GormStore) Details() IResponseDetailRepository { return s.details }
func (s *GormStore) Statistics() IStatisticsRepository  { return s.statistics }
func (s *GormStore) Targets() ITargetRepository         { return s.targets }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	opts := &sql.TxOptions{Isolation: s.isolation}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx, s.isolation))
	}, opts)
}

// forUpdate adiciona SELECT ... FOR UPDATE quando o dialeto suporta
func forUpdate(db *gorm.DB, noWait bool) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	locking := clause.Locking{Strength: "UPDATE"}
	if noWait {
		locking.Options = "NOWAIT"
	}
	return db.Clauses(locking)
}

func scoped(db *gorm.DB, includeDeleted bool) *gorm.DB {
	if includeDeleted {
		return db.Unscoped()
	}
	return db
}
