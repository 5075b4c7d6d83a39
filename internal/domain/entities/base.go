package entities

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// YN é um booleano gravado como 'Y'/'N'. NULL ou qualquer valor diferente de 'Y' é lido como false.
type YN bool

const (
	Yes YN = true
	No  YN = false
)

// Value implementa driver.Valuer
func (f YN) Value() (driver.Value, error) {
	if f {
		return "Y", nil
	}
	return "N", nil
}

// Scan implementa sql.Scanner
func (f *YN) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = No
	case string:
		*f = YN(strings.EqualFold(strings.TrimSpace(v), "Y"))
	case []byte:
		*f = YN(strings.EqualFold(strings.TrimSpace(string(v)), "Y"))
	case bool:
		*f = YN(v)
	case int64:
		*f = YN(v != 0)
	default:
		return fmt.Errorf("cannot scan %T into YN", value)
	}
	return nil
}

// Audit reúne as colunas de exclusão lógica e auditoria comuns às tabelas editáveis
type Audit struct {
	Deleted   YN             `json:"-" gorm:"column:del_yn;type:char(1);not null;default:'N'"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"column:del_dt;index"`
	CreatedBy string         `json:"created_by" gorm:"column:reg_emp_id;size:50"`
	UpdatedBy string         `json:"updated_by" gorm:"column:upd_emp_id;size:50"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:reg_dt;autoCreateTime:false"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:upd_dt;autoUpdateTime:false"`
}

// Stamp preenche a auditoria de uma linha nova
func (a *Audit) Stamp(actor string, at time.Time) {
	a.Deleted = No
	a.CreatedBy = actor
	a.UpdatedBy = actor
	a.CreatedAt = at
	a.UpdatedAt = at
}

// Touch registra uma alteração
func (a *Audit) Touch(actor string, at time.Time) {
	a.UpdatedBy = actor
	a.UpdatedAt = at
}

// IsDeleted indica se a linha foi excluída logicamente
func (a Audit) IsDeleted() bool {
	return bool(a.Deleted) || a.DeletedAt.Valid
}

// SoftDeleteColumns retorna as colunas gravadas em toda exclusão lógica
func SoftDeleteColumns(actor string, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"del_yn":     Yes,
		"del_dt":     at,
		"upd_emp_id": actor,
		"upd_dt":     at,
	}
}
