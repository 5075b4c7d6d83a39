package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes cria os índices de consulta e os índices únicos de ordenação
func AddIndexes(db *gorm.DB) error {
	indexes := []string{
		// Ordem densa por pai; linhas excluídas logicamente não participam
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_surv_qst_ord ON tb_surv_qst (surv_seq, qst_ord) WHERE del_yn = 'N'",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_surv_chc_ord ON tb_surv_chc (qst_seq, chc_ord) WHERE del_yn = 'N'",

		// Uma linha de estatística por (pergunta, escolha)
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_surv_stat_qst ON tb_surv_stat (surv_seq, qst_seq) WHERE chc_seq IS NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_surv_stat_chc ON tb_surv_stat (surv_seq, qst_seq, chc_seq) WHERE chc_seq IS NOT NULL",

		// Regra de duplicidade e limite de respostas
		"CREATE INDEX IF NOT EXISTS idx_surv_resp_respondent ON tb_surv_resp (surv_seq, emp_no, resp_sts_cd)",
		"CREATE INDEX IF NOT EXISTS idx_surv_resp_status ON tb_surv_resp (surv_seq, resp_sts_cd) WHERE del_yn = 'N'",

		"CREATE INDEX IF NOT EXISTS idx_surv_resp_dtl_question ON tb_surv_resp_dtl (resp_seq, qst_seq) WHERE del_yn = 'N'",
		"CREATE INDEX IF NOT EXISTS idx_surv_tgt_survey ON tb_surv_tgt (surv_seq, tgt_ty_cd) WHERE del_yn = 'N'",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}
