package entities

// Employee representa um funcionário do diretório (tb_emp) usado para resolver o público-alvo
type Employee struct {
	EmpID        string `json:"emp_id" gorm:"primaryKey;column:emp_id;size:50"`
	Name         string `json:"name" gorm:"column:emp_nm;size:100"`
	DeptCode     string `json:"dept_cd" gorm:"column:dept_cd;size:50;index"`
	DeptName     string `json:"dept_nm" gorm:"column:dept_nm;size:100"`
	PositionCode string `json:"position_cd" gorm:"column:position_cd;size:50;index"`
	InUse        YN     `json:"in_use" gorm:"column:use_yn;type:char(1);not null;default:'Y'"`
}

func (Employee) TableName() string { return "tb_emp" }
