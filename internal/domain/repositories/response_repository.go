package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IResponseRepository interface {
	Create(ctx context.Context, response *entities.Response) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Response, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Response, error)
	ExistsActive(ctx context.Context, surveyID int64, respondentKey string) (bool, error)
	CountCompleted(ctx context.Context, surveyID int64) (int64, error)
	CompletedIDs(ctx context.Context, surveyID int64) ([]int64, error)
	ListBySurvey(ctx context.Context, surveyID int64, status entities.ResponseStatus) ([]entities.Response, error)
	UpdateState(ctx context.Context, id int64, from entities.ResponseStatus, changes map[string]interface{}) error
}

// ResponseRepository implementa o acesso às respostas (tb_surv_resp)
type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(ctx context.Context, response *entities.Response) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(response).Error; err != nil {
		return fmt.Errorf("erro ao criar resposta: %w", err)
	}
	return nil
}

func (r *ResponseRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Response, error) {
	var response entities.Response
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("resp_seq = ?", id).
		First(&response).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar resposta %d: %w", id, err)
	}
	return &response, nil
}

// FindByIDForUpdate trava a resposta para gravar respostas ou concluir
func (r *ResponseRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Response, error) {
	var response entities.Response
	err := forUpdate(r.db.WithContext(ctx), false).
		Where("resp_seq = ?", id).
		First(&response).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao travar resposta %d: %w", id, err)
	}
	return &response, nil
}

// ExistsActive indica se o respondente já tem uma resposta não abandonada na pesquisa
func (r *ResponseRepository) ExistsActive(ctx context.Context, surveyID int64, respondentKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("surv_seq = ? AND emp_no = ? AND resp_sts_cd IN ?", surveyID, respondentKey,
			[]entities.ResponseStatus{entities.ResponseInProgress, entities.ResponseCompleted}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("erro ao verificar respostas do respondente: %w", err)
	}
	return count > 0, nil
}

func (r *ResponseRepository) CountCompleted(ctx context.Context, surveyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("surv_seq = ? AND resp_sts_cd = ?", surveyID, entities.ResponseCompleted).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao contar respostas concluídas da pesquisa %d: %w", surveyID, err)
	}
	return count, nil
}

// CompletedIDs retorna os IDs das respostas concluídas e não excluídas
func (r *ResponseRepository) CompletedIDs(ctx context.Context, surveyID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("surv_seq = ? AND resp_sts_cd = ?", surveyID, entities.ResponseCompleted).
		Order("resp_seq").
		Pluck("resp_seq", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar respostas concluídas da pesquisa %d: %w", surveyID, err)
	}
	return ids, nil
}

// ListBySurvey lista as respostas da pesquisa, opcionalmente filtrando por status
func (r *ResponseRepository) ListBySurvey(ctx context.Context, surveyID int64, status entities.ResponseStatus) ([]entities.Response, error) {
	var responses []entities.Response
	query := r.db.WithContext(ctx).Where("surv_seq = ?", surveyID)
	if status != "" {
		query = query.Where("resp_sts_cd = ?", status)
	}
	if err := query.Order("resp_seq").Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("erro ao listar respostas da pesquisa %d: %w", surveyID, err)
	}
	return responses, nil
}

// UpdateState aplica changes somente se a resposta ainda estiver em from
func (r *ResponseRepository) UpdateState(ctx context.Context, id int64, from entities.ResponseStatus, changes map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Response{}).
		Where("resp_seq = ? AND resp_sts_cd = ?", id, from).
		Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("erro ao atualizar resposta %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

type IResponseDetailRepository interface {
	ListByResponse(ctx context.Context, responseID int64) ([]entities.ResponseDetail, error)
	ListByResponseAndQuestion(ctx context.Context, responseID, questionID int64) ([]entities.ResponseDetail, error)
	Create(ctx context.Context, detail *entities.ResponseDetail) error
	SoftDeleteByQuestion(ctx context.Context, responseID, questionID int64, actor string, at time.Time) error
	AnsweredQuestionIDs(ctx context.Context, responseID int64) ([]int64, error)
	ListEligibleBySurvey(ctx context.Context, surveyID int64) ([]entities.ResponseDetail, error)
}

// ResponseDetailRepository implementa o acesso aos itens de resposta (tb_surv_resp_dtl)
type ResponseDetailRepository struct {
	db *gorm.DB
}

func NewResponseDetailRepository(db *gorm.DB) *ResponseDetailRepository {
	return &ResponseDetailRepository{db: db}
}

func (r *ResponseDetailRepository) ListByResponse(ctx context.Context, responseID int64) ([]entities.ResponseDetail, error) {
	var details []entities.ResponseDetail
	err := r.db.WithContext(ctx).
		Where("resp_seq = ?", responseID).
		Order("qst_seq").
		Order("resp_ord").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens da resposta %d: %w", responseID, err)
	}
	return details, nil
}

func (r *ResponseDetailRepository) ListByResponseAndQuestion(ctx context.Context, responseID, questionID int64) ([]entities.ResponseDetail, error) {
	var details []entities.ResponseDetail
	err := r.db.WithContext(ctx).
		Where("resp_seq = ? AND qst_seq = ?", responseID, questionID).
		Order("resp_ord").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens da resposta %d: %w", responseID, err)
	}
	return details, nil
}

func (r *ResponseDetailRepository) Create(ctx context.Context, detail *entities.ResponseDetail) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return fmt.Errorf("erro ao gravar item de resposta: %w", err)
	}
	return nil
}

func (r *ResponseDetailRepository) SoftDeleteByQuestion(ctx context.Context, responseID, questionID int64, actor string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ResponseDetail{}).
		Where("resp_seq = ? AND qst_seq = ?", responseID, questionID).
		Updates(entities.SoftDeleteColumns(actor, at)).Error
	if err != nil {
		return fmt.Errorf("erro ao excluir itens da resposta %d: %w", responseID, err)
	}
	return nil
}

// AnsweredQuestionIDs retorna as perguntas que têm ao menos um item vivo na resposta
func (r *ResponseDetailRepository) AnsweredQuestionIDs(ctx context.Context, responseID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entities.ResponseDetail{}).
		Where("resp_seq = ?", responseID).
		Distinct().
		Order("qst_seq").
		Pluck("qst_seq", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar perguntas respondidas da resposta %d: %w", responseID, err)
	}
	return ids, nil
}

// ListEligibleBySurvey retorna os itens vivos de respostas concluídas e não excluídas
func (r *ResponseDetailRepository) ListEligibleBySurvey(ctx context.Context, surveyID int64) ([]entities.ResponseDetail, error) {
	var details []entities.ResponseDetail
	err := r.db.WithContext(ctx).
		Joins("JOIN tb_surv_resp r ON r.resp_seq = tb_surv_resp_dtl.resp_seq").
		Where("tb_surv_resp_dtl.surv_seq = ? AND r.resp_sts_cd = ? AND r.del_yn = ?",
			surveyID, entities.ResponseCompleted, entities.No).
		Order("tb_surv_resp_dtl.resp_seq").
		Order("tb_surv_resp_dtl.resp_dtl_seq").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens elegíveis da pesquisa %d: %w", surveyID, err)
	}
	return details, nil
}
