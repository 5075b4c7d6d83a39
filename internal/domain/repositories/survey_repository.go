package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SurveyFilter reúne os filtros da listagem de pesquisas
type SurveyFilter struct {
	Page           int
	Limit          int
	Status         entities.SurveyStatus
	Type           entities.SurveyType
	Keyword        string
	SortBy         string
	SortDirection  string
	IncludeDeleted bool
}

var surveySortColumns = map[string]string{
	"created_at": "reg_dt",
	"updated_at": "upd_dt",
	"title":      "surv_ttl",
	"start_date": "surv_stt_dt",
	"end_date":   "surv_end_dt",
	"status":     "surv_sts_cd",
	"survey_id":  "surv_seq",
}

type ISurveyRepository interface {
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Survey, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Survey, error)
	LockForOrdering(ctx context.Context, id int64) (*entities.Survey, error)
	List(ctx context.Context, filter SurveyFilter) ([]entities.Survey, int64, error)
	ListActive(ctx context.Context, day time.Time) ([]entities.Survey, error)
	Create(ctx context.Context, survey *entities.Survey) error
	Update(ctx context.Context, survey *entities.Survey) error
	UpdateStatus(ctx context.Context, id int64, from, to entities.SurveyStatus, actor string, at time.Time) error
	SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error
	BumpOrderVersion(ctx context.Context, id int64, expected int) error
	UpdateResponseCount(ctx context.Context, id int64, count int) error
}

// SurveyRepository implementa métodos para acesso a dados de pesquisas
type SurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository cria uma nova instância de SurveyRepository
func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{
		db: db,
	}
}

// FindByID busca uma pesquisa pelo ID
func (r *SurveyRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*entities.Survey, error) {
	var survey entities.Survey
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("surv_seq = ?", id).
		First(&survey).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pesquisa %d: %w", id, err)
	}
	return &survey, nil
}

// FindByIDForUpdate busca a pesquisa travando a linha até o fim da transação
func (r *SurveyRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Survey, error) {
	var survey entities.Survey
	err := forUpdate(r.db.WithContext(ctx), false).
		Where("surv_seq = ?", id).
		First(&survey).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao travar pesquisa %d: %w", id, err)
	}
	return &survey, nil
}

// LockForOrdering trava a pesquisa sem esperar; quem chega depois recebe erro imediatamente
func (r *SurveyRepository) LockForOrdering(ctx context.Context, id int64) (*entities.Survey, error) {
	var survey entities.Survey
	err := forUpdate(r.db.WithContext(ctx), true).
		Where("surv_seq = ?", id).
		First(&survey).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao travar ordenação da pesquisa %d: %w", id, err)
	}
	return &survey, nil
}

// List retorna as pesquisas com filtros e paginação
func (r *SurveyRepository) List(ctx context.Context, filter SurveyFilter) ([]entities.Survey, int64, error) {
	var surveys []entities.Survey
	var total int64

	// Construindo a consulta base
	query := scoped(r.db.WithContext(ctx), filter.IncludeDeleted).Model(&entities.Survey{})

	// Aplicando filtros
	if filter.Status != "" {
		query = query.Where("surv_sts_cd = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("surv_ty_cd = ?", filter.Type)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("(LOWER(surv_ttl) LIKE ? OR LOWER(surv_desc) LIKE ?)", like, like)
	}

	// Contar total de registros antes da paginação
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("erro ao contar pesquisas: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	column, ok := surveySortColumns[filter.SortBy]
	if !ok {
		column = "reg_dt"
	}
	desc := !strings.EqualFold(filter.SortDirection, "asc")

	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order("surv_seq").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&surveys).Error
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao buscar pesquisas: %w", err)
	}

	return surveys, total, nil
}

// ListActive retorna as pesquisas ativas cuja janela inclui o dia informado
func (r *SurveyRepository) ListActive(ctx context.Context, day time.Time) ([]entities.Survey, error) {
	var surveys []entities.Survey
	err := r.db.WithContext(ctx).
		Where("surv_sts_cd = ?", entities.SurveyActive).
		Order("surv_seq").
		Find(&surveys).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pesquisas ativas: %w", err)
	}

	open := surveys[:0]
	for _, s := range surveys {
		if s.OpenOn(day) {
			open = append(open, s)
		}
	}
	return open, nil
}

func (r *SurveyRepository) Create(ctx context.Context, survey *entities.Survey) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(survey).Error; err != nil {
		return fmt.Errorf("erro ao criar pesquisa: %w", err)
	}
	return nil
}

// Update grava os campos editáveis da pesquisa
func (r *SurveyRepository) Update(ctx context.Context, survey *entities.Survey) error {
	err := r.db.WithContext(ctx).
		Model(survey).
		Select("surv_ttl", "surv_desc", "surv_ty_cd", "surv_stt_dt", "surv_end_dt", "surv_dur_min",
			"anon_yn", "dupl_yn", "max_resp_cnt", "tgt_emp_ty_cd", "file_att_yn", "upd_emp_id", "upd_dt").
		Omit(clause.Associations).
		Updates(survey).Error
	if err != nil {
		return fmt.Errorf("erro ao atualizar pesquisa %d: %w", survey.SurveyID, err)
	}
	return nil
}

// UpdateStatus muda o status somente se a pesquisa ainda estiver em from
func (r *SurveyRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.SurveyStatus, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Survey{}).
		Where("surv_seq = ? AND surv_sts_cd = ?", id, from).
		Updates(map[string]interface{}{
			"surv_sts_cd":    to,
			"sts_chg_dt":     at,
			"sts_chg_emp_id": actor,
			"upd_emp_id":     actor,
			"upd_dt":         at,
		})
	if result.Error != nil {
		return fmt.Errorf("erro ao alterar status da pesquisa %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *SurveyRepository) SoftDelete(ctx context.Context, id int64, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Survey{}).
		Where("surv_seq = ?", id).
		Updates(entities.SoftDeleteColumns(actor, at))
	if result.Error != nil {
		return fmt.Errorf("erro ao excluir pesquisa %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pesquisa %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// BumpOrderVersion incrementa a versão de ordenação das perguntas, falhando se outro processo já o fez
func (r *SurveyRepository) BumpOrderVersion(ctx context.Context, id int64, expected int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Survey{}).
		Where("surv_seq = ? AND ord_version = ?", id, expected).
		Update("ord_version", gorm.Expr("ord_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("erro ao versionar ordenação da pesquisa %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *SurveyRepository) UpdateResponseCount(ctx context.Context, id int64, count int) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Survey{}).
		Where("surv_seq = ?", id).
		Update("resp_cnt", count).Error
	if err != nil {
		return fmt.Errorf("erro ao atualizar contagem de respostas da pesquisa %d: %w", id, err)
	}
	return nil
}
