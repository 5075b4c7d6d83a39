package repositories

import (
	"context"
	"fmt"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

type IStatisticsRepository interface {
	ListBySurvey(ctx context.Context, surveyID int64) ([]entities.Statistics, error)
	Save(ctx context.Context, stat *entities.Statistics) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// StatisticsRepository implementa o acesso às estatísticas (tb_surv_stat).
// As linhas são derivadas, então a remoção é física.
type StatisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) ListBySurvey(ctx context.Context, surveyID int64) ([]entities.Statistics, error) {
	var stats []entities.Statistics
	err := r.db.WithContext(ctx).
		Where("surv_seq = ?", surveyID).
		Order("qst_seq").
		Order("chc_seq").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar estatísticas da pesquisa %d: %w", surveyID, err)
	}
	return stats, nil
}

// Save insere a linha quando ela ainda não tem ID, senão sobrescreve
func (r *StatisticsRepository) Save(ctx context.Context, stat *entities.Statistics) error {
	if err := r.db.WithContext(ctx).Save(stat).Error; err != nil {
		return fmt.Errorf("erro ao gravar estatística da pergunta %d: %w", stat.QuestionID, err)
	}
	return nil
}

func (r *StatisticsRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("stat_seq IN ?", ids).Delete(&entities.Statistics{}).Error; err != nil {
		return fmt.Errorf("erro ao remover estatísticas: %w", err)
	}
	return nil
}
