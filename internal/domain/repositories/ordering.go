package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// orderedTable descreve uma tabela com ordem densa 1..N por pai
type orderedTable struct {
	table  string
	key    string
	parent string
	order  string
}

var (
	questionOrder = orderedTable{table: "tb_surv_qst", key: "qst_seq", parent: "surv_seq", order: "qst_ord"}
	choiceOrder   = orderedTable{table: "tb_surv_chc", key: "chc_seq", parent: "qst_seq", order: "chc_ord"}
)

// move leva o item de oldIdx para newIdx deslocando o intervalo entre as duas posições.
// Tudo é feito em duas fases: primeiro os valores afetados ficam negativos, depois são
// invertidos, assim o índice único parcial nunca enxerga duplicatas intermediárias.
func (t orderedTable) move(db *gorm.DB, parentID, itemID int64, oldIdx, newIdx int, actor string, at time.Time) error {
	if oldIdx == newIdx {
		return nil
	}

	from, to, delta := newIdx, oldIdx-1, 1
	if newIdx > oldIdx {
		from, to, delta = oldIdx+1, newIdx, -1
	}

	err := db.Table(t.table).
		Where(t.key+" = ?", itemID).
		Updates(map[string]interface{}{
			t.order:      -newIdx,
			"upd_emp_id": actor,
			"upd_dt":     at,
		}).Error
	if err != nil {
		return fmt.Errorf("erro ao mover item em %s: %w", t.table, err)
	}

	if err := t.negate(db, parentID, from, to, delta, actor, at); err != nil {
		return err
	}
	return t.flip(db, parentID)
}

// shift desloca por delta as posições from..to de um pai
func (t orderedTable) shift(db *gorm.DB, parentID int64, from, to, delta int, actor string, at time.Time) error {
	if from > to || delta == 0 {
		return nil
	}
	if err := t.negate(db, parentID, from, to, delta, actor, at); err != nil {
		return err
	}
	return t.flip(db, parentID)
}

func (t orderedTable) negate(db *gorm.DB, parentID int64, from, to, delta int, actor string, at time.Time) error {
	err := db.Table(t.table).
		Where(t.parent+" = ? AND del_yn = ? AND "+t.order+" BETWEEN ? AND ?", parentID, "N", from, to).
		Updates(map[string]interface{}{
			t.order:      gorm.Expr("-("+t.order+" + ?)", delta),
			"upd_emp_id": actor,
			"upd_dt":     at,
		}).Error
	if err != nil {
		return fmt.Errorf("erro ao deslocar ordem em %s: %w", t.table, err)
	}
	return nil
}

func (t orderedTable) flip(db *gorm.DB, parentID int64) error {
	err := db.Table(t.table).
		Where(t.parent+" = ? AND del_yn = ? AND "+t.order+" < 0", parentID, "N").
		Update(t.order, gorm.Expr("-"+t.order)).Error
	if err != nil {
		return fmt.Errorf("erro ao normalizar ordem em %s: %w", t.table, err)
	}
	return nil
}

func (t orderedTable) nextOrder(db *gorm.DB, parentID int64) (int, error) {
	var max int
	err := db.Table(t.table).
		Where(t.parent+" = ? AND del_yn = ?", parentID, "N").
		Select("COALESCE(MAX(" + t.order + "), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao calcular próxima ordem em %s: %w", t.table, err)
	}
	return max + 1, nil
}
