package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IQuestionRepository interface {
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Question, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Question, error)
	ListBySurvey(ctx context.Context, surveyID int64, withChoices bool) ([]entities.Question, error)
	Count(ctx context.Context, surveyID int64) (int64, error)
	NextOrder(ctx context.Context, surveyID int64) (int, error)
	Create(ctx context.Context, question *entities.Question) error
	Update(ctx context.Context, question *entities.Question) error
	SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error
	Move(ctx context.Context, surveyID, questionID int64, oldIdx, newIdx int, actor string, at time.Time) error
	ShiftOrders(ctx context.Context, surveyID int64, from, to, delta int, actor string, at time.Time) error
	BumpOrderVersion(ctx context.Context, id int64, expected int) error
}

// QuestionRepository implementa o acesso às perguntas (tb_surv_qst)
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FindByID busca uma pergunta pelo ID
func (r *QuestionRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Question, error) {
	var question entities.Question
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("qst_seq = ?", id).
		First(&question).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pergunta %d: %w", id, err)
	}
	return &question, nil
}

// FindByIDForUpdate trava a pergunta sem esperar; usada ao reordenar as escolhas dela
func (r *QuestionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Question, error) {
	var question entities.Question
	err := forUpdate(r.db.WithContext(ctx), true).
		Where("qst_seq = ?", id).
		First(&question).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao travar pergunta %d: %w", id, err)
	}
	return &question, nil
}

// ListBySurvey retorna as perguntas vivas na ordem de exibição
func (r *QuestionRepository) ListBySurvey(ctx context.Context, surveyID int64, withChoices bool) ([]entities.Question, error) {
	var questions []entities.Question
	query := r.db.WithContext(ctx).Where("surv_seq = ?", surveyID)
	if withChoices {
		query = query.Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("chc_ord")
		})
	}
	if err := query.Order("qst_ord").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("erro ao listar perguntas da pesquisa %d: %w", surveyID, err)
	}
	return questions, nil
}

func (r *QuestionRepository) Count(ctx context.Context, surveyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Question{}).
		Where("surv_seq = ?", surveyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao contar perguntas da pesquisa %d: %w", surveyID, err)
	}
	return count, nil
}

func (r *QuestionRepository) NextOrder(ctx context.Context, surveyID int64) (int, error) {
	return questionOrder.nextOrder(r.db.WithContext(ctx), surveyID)
}

func (r *QuestionRepository) Create(ctx context.Context, question *entities.Question) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(question).Error; err != nil {
		return fmt.Errorf("erro ao criar pergunta: %w", err)
	}
	return nil
}

// Update grava os campos editáveis da pergunta; a ordem só muda via Move
func (r *QuestionRepository) Update(ctx context.Context, question *entities.Question) error {
	err := r.db.WithContext(ctx).
		Model(question).
		Select("qst_ttl", "qst_desc", "qst_ty_cd", "req_yn", "skip_lgc_yn", "skip_cond",
			"scr_yn", "scr_weight", "upd_emp_id", "upd_dt").
		Omit(clause.Associations).
		Updates(question).Error
	if err != nil {
		return fmt.Errorf("erro ao atualizar pergunta %d: %w", question.QuestionID, err)
	}
	return nil
}

func (r *QuestionRepository) SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Question{}).
		Where("qst_seq = ?", id).
		Updates(entities.SoftDeleteColumns(actor, at))
	if result.Error != nil {
		return fmt.Errorf("erro ao excluir pergunta %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pergunta %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *QuestionRepository) Move(ctx context.Context, surveyID, questionID int64, oldIdx, newIdx int, actor string, at time.Time) error {
	return questionOrder.move(r.db.WithContext(ctx), surveyID, questionID, oldIdx, newIdx, actor, at)
}

func (r *QuestionRepository) ShiftOrders(ctx context.Context, surveyID int64, from, to, delta int, actor string, at time.Time) error {
	return questionOrder.shift(r.db.WithContext(ctx), surveyID, from, to, delta, actor, at)
}

// BumpOrderVersion incrementa a versão de ordenação das escolhas da pergunta
func (r *QuestionRepository) BumpOrderVersion(ctx context.Context, id int64, expected int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Question{}).
		Where("qst_seq = ? AND ord_version = ?", id, expected).
		Update("ord_version", gorm.Expr("ord_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("erro ao versionar ordenação da pergunta %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
