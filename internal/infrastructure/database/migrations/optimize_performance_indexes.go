package migrations

import (
	"log/slog"

	"gorm.io/gorm"
)

// OptimizePerformanceIndexes adiciona índices específicos do PostgreSQL
func OptimizePerformanceIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	indexes := []string{
		// Índice BRIN para consultas por período em respostas (dados sequenciais no tempo)
		"CREATE INDEX IF NOT EXISTS idx_surv_resp_started_brin ON tb_surv_resp USING BRIN (resp_stt_dt)",
		// Pesquisas ativas são consultadas a todo momento pela listagem pública
		"CREATE INDEX IF NOT EXISTS idx_surv_mst_active ON tb_surv_mst (surv_stt_dt, surv_end_dt) WHERE surv_sts_cd = 'ACTIVE' AND del_yn = 'N'",
		// Diretório por departamento e cargo
		"CREATE INDEX IF NOT EXISTS idx_emp_dept_in_use ON tb_emp (dept_cd) WHERE use_yn = 'Y'",
		"CREATE INDEX IF NOT EXISTS idx_emp_position_in_use ON tb_emp (position_cd) WHERE use_yn = 'Y'",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}

	slog.Info("performance indexes created", slog.Int("count", len(indexes)))
	return nil
}
