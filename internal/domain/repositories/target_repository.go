package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

type ITargetRepository interface {
	ListBySurvey(ctx context.Context, surveyID int64) ([]entities.Target, error)
	FindByID(ctx context.Context, id int64) (*entities.Target, error)
	Create(ctx context.Context, target *entities.Target) error
	SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error
}

// TargetRepository implementa o acesso ao público-alvo (tb_surv_tgt)
type TargetRepository struct {
	db *gorm.DB
}

func NewTargetRepository(db *gorm.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

func (r *TargetRepository) ListBySurvey(ctx context.Context, surveyID int64) ([]entities.Target, error) {
	var targets []entities.Target
	err := r.db.WithContext(ctx).
		Where("surv_seq = ?", surveyID).
		Order("tgt_seq").
		Find(&targets).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar público-alvo da pesquisa %d: %w", surveyID, err)
	}
	return targets, nil
}

func (r *TargetRepository) FindByID(ctx context.Context, id int64) (*entities.Target, error) {
	var target entities.Target
	if err := r.db.WithContext(ctx).Where("tgt_seq = ?", id).First(&target).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar público-alvo %d: %w", id, err)
	}
	return &target, nil
}

func (r *TargetRepository) Create(ctx context.Context, target *entities.Target) error {
	if err := r.db.WithContext(ctx).Create(target).Error; err != nil {
		return fmt.Errorf("erro ao criar público-alvo: %w", err)
	}
	return nil
}

func (r *TargetRepository) SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Target{}).
		Where("tgt_seq = ?", id).
		Updates(entities.SoftDeleteColumns(actor, at))
	if result.Error != nil {
		return fmt.Errorf("erro ao excluir público-alvo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("público-alvo %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
