package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

type IChoiceRepository interface {
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Choice, error)
	ListByQuestion(ctx context.Context, questionID int64) ([]entities.Choice, error)
	Count(ctx context.Context, questionID int64) (int64, error)
	NextOrder(ctx context.Context, questionID int64) (int, error)
	FindEtcChoice(ctx context.Context, questionID int64) (*entities.Choice, error)
	Create(ctx context.Context, choice *entities.Choice) error
	Update(ctx context.Context, choice *entities.Choice) error
	SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error
	SoftDeleteByQuestion(ctx context.Context, questionID int64, actor string, at time.Time) error
	Move(ctx context.Context, questionID, choiceID int64, oldIdx, newIdx int, actor string, at time.Time) error
	ShiftOrders(ctx context.Context, questionID int64, from, to, delta int, actor string, at time.Time) error
}

// ChoiceRepository implementa o acesso às escolhas (tb_surv_chc)
type ChoiceRepository struct {
	db *gorm.DB
}

func NewChoiceRepository(db *gorm.DB) *ChoiceRepository {
	return &ChoiceRepository{db: db}
}

func (r *ChoiceRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Choice, error) {
	var choice entities.Choice
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("chc_seq = ?", id).
		First(&choice).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar escolha %d: %w", id, err)
	}
	return &choice, nil
}

// ListByQuestion retorna as escolhas vivas da pergunta em ordem
func (r *ChoiceRepository) ListByQuestion(ctx context.Context, questionID int64) ([]entities.Choice, error) {
	var choices []entities.Choice
	err := r.db.WithContext(ctx).
		Where("qst_seq = ?", questionID).
		Order("chc_ord").
		Find(&choices).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar escolhas da pergunta %d: %w", questionID, err)
	}
	return choices, nil
}

func (r *ChoiceRepository) Count(ctx context.Context, questionID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Choice{}).
		Where("qst_seq = ?", questionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao contar escolhas da pergunta %d: %w", questionID, err)
	}
	return count, nil
}

func (r *ChoiceRepository) NextOrder(ctx context.Context, questionID int64) (int, error) {
	return choiceOrder.nextOrder(r.db.WithContext(ctx), questionID)
}

// FindEtcChoice retorna a escolha "outros" da pergunta, ou nil se não houver
func (r *ChoiceRepository) FindEtcChoice(ctx context.Context, questionID int64) (*entities.Choice, error) {
	var choice entities.Choice
	err := r.db.WithContext(ctx).
		Where("qst_seq = ? AND etc_yn = ?", questionID, entities.Yes).
		First(&choice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar escolha outros da pergunta %d: %w", questionID, err)
	}
	return &choice, nil
}

func (r *ChoiceRepository) Create(ctx context.Context, choice *entities.Choice) error {
	if err := r.db.WithContext(ctx).Create(choice).Error; err != nil {
		return fmt.Errorf("erro ao criar escolha: %w", err)
	}
	return nil
}

func (r *ChoiceRepository) Update(ctx context.Context, choice *entities.Choice) error {
	err := r.db.WithContext(ctx).
		Model(choice).
		Select("chc_ttl", "chc_desc", "chc_scr", "chc_value", "etc_yn", "upd_emp_id", "upd_dt").
		Updates(choice).Error
	if err != nil {
		return fmt.Errorf("erro ao atualizar escolha %d: %w", choice.ChoiceID, err)
	}
	return nil
}

func (r *ChoiceRepository) SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Choice{}).
		Where("chc_seq = ?", id).
		Updates(entities.SoftDeleteColumns(actor, at))
	if result.Error != nil {
		return fmt.Errorf("erro ao excluir escolha %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("escolha %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// SoftDeleteByQuestion exclui logicamente todas as escolhas de uma pergunta
func (r *ChoiceRepository) SoftDeleteByQuestion(ctx context.Context, questionID int64, actor string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Choice{}).
		Where("qst_seq = ?", questionID).
		Updates(entities.SoftDeleteColumns(actor, at)).Error
	if err != nil {
		return fmt.Errorf("erro ao excluir escolhas da pergunta %d: %w", questionID, err)
	}
	return nil
}

func (r *ChoiceRepository) Move(ctx context.Context, questionID, choiceID int64, oldIdx, newIdx int, actor string, at time.Time) error {
	return choiceOrder.move(r.db.WithContext(ctx), questionID, choiceID, oldIdx, newIdx, actor, at)
}

func (r *ChoiceRepository) ShiftOrders(ctx context.Context, questionID int64, from, to, delta int, actor string, at time.Time) error {
	return choiceOrder.shift(r.db.WithContext(ctx), questionID, from, to, delta, actor, at)
}
