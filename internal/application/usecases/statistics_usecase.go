package usecases

import (
	"context"
	"log/slog"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// StatisticsUseCase recalcula e consulta as estatísticas das pesquisas
type StatisticsUseCase struct {
	base
	cache StatisticsCache
}

func NewStatisticsUseCase(store repositories.Store, cache StatisticsCache, opts Options) *StatisticsUseCase {
	return &StatisticsUseCase{base: newBase(store, opts), cache: cache}
}

// Recompute reconstrói as estatísticas a partir das respostas concluídas.
// As leituras não travam nada; somente a gravação roda em transação e só toca linhas que mudaram.
func (u *StatisticsUseCase) Recompute(ctx context.Context, surveyID int64) ([]entities.Statistics, error) {
	var result []entities.Statistics
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		questions, err := u.store.Questions().ListBySurvey(ctx, surveyID, true)
		if err != nil {
			return err
		}
		completedIDs, err := u.store.Responses().CompletedIDs(ctx, surveyID)
		if err != nil {
			return err
		}
		details, err := u.store.Details().ListEligibleBySurvey(ctx, surveyID)
		if err != nil {
			return err
		}

		computed := aggregate(surveyID, questions, completedIDs, details, u.clock())

		write := func() error {
			return u.store.Transaction(ctx, func(tx repositories.Store) error {
				result, err = writeBack(ctx, tx, surveyID, computed)
				return err
			})
		}
		err = write()
		// outro recálculo gravou as linhas primeiro; relê e compara de novo
		if isUniqueViolation(err) {
			slog.Warn("recálculo concorrente de estatísticas, repetindo gravação",
				slog.Int64("survey_id", surveyID))
			err = write()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	u.cacheSet(ctx, surveyID, result)
	slog.Info("estatísticas recalculadas",
		slog.Int64("survey_id", surveyID),
		slog.Int("rows", len(result)))
	return result, nil
}

// writeBack compara as linhas calculadas com as gravadas: iguais ficam intactas,
// diferentes são sobrescritas e as que sobraram são removidas.
func writeBack(ctx context.Context, tx repositories.Store, surveyID int64, computed []entities.Statistics) ([]entities.Statistics, error) {
	stored, err := tx.Statistics().ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[statKey]entities.Statistics, len(stored))
	var stale []int64
	for _, s := range stored {
		k := keyOf(s)
		if _, dup := byKey[k]; dup {
			stale = append(stale, s.StatID)
			continue
		}
		byKey[k] = s
	}

	result := make([]entities.Statistics, 0, len(computed))
	for _, c := range computed {
		k := keyOf(c)
		old, ok := byKey[k]
		delete(byKey, k)

		if ok && old.SameFigures(&c) {
			result = append(result, old)
			continue
		}
		if ok {
			c.StatID = old.StatID
		}
		if err := tx.Statistics().Save(ctx, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	for _, s := range byKey {
		stale = append(stale, s.StatID)
	}
	if err := tx.Statistics().DeleteByIDs(ctx, stale); err != nil {
		return nil, err
	}
	return result, nil
}

// GetStatistics retorna as estatísticas gravadas, passando pelo cache
func (u *StatisticsUseCase) GetStatistics(ctx context.Context, surveyID int64) ([]entities.Statistics, error) {
	if u.cache != nil {
		stats, found, err := u.cache.Get(ctx, surveyID)
		if err != nil {
			slog.Warn("falha ao ler cache de estatísticas",
				slog.Int64("survey_id", surveyID),
				slog.String("error", err.Error()))
		}
		if found {
			return stats, nil
		}
	}

	var stats []entities.Statistics
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		var err error
		stats, err = u.store.Statistics().ListBySurvey(ctx, surveyID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.cacheSet(ctx, surveyID, stats)
	return stats, nil
}

func (u *StatisticsUseCase) cacheSet(ctx context.Context, surveyID int64, stats []entities.Statistics) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, surveyID, stats); err != nil {
		slog.Warn("falha ao gravar cache de estatísticas",
			slog.Int64("survey_id", surveyID),
			slog.String("error", err.Error()))
	}
}
