package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

// EmployeeRepository lê o diretório de funcionários (tb_emp).
// Somente funcionários ativos (use_yn = 'Y') participam de pesquisas.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("use_yn = ?", entities.Yes).Order("emp_id ASC")
}

// AllEmployees retorna todos os funcionários ativos
func (r *EmployeeRepository) AllEmployees(ctx context.Context) ([]entities.Employee, error) {
	var employees []entities.Employee
	if err := r.active(ctx).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar funcionários: %w", err)
	}
	return employees, nil
}

// FindEmployee retorna nil quando a matrícula não existe ou está inativa
func (r *EmployeeRepository) FindEmployee(ctx context.Context, empID string) (*entities.Employee, error) {
	var employee entities.Employee
	err := r.active(ctx).Where("emp_id = ?", empID).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar funcionário %s: %w", empID, err)
	}
	return &employee, nil
}

// EmployeesByDepartment retorna os funcionários ativos do departamento
func (r *EmployeeRepository) EmployeesByDepartment(ctx context.Context, deptCode string) ([]entities.Employee, error) {
	var employees []entities.Employee
	if err := r.active(ctx).Where("dept_cd = ?", deptCode).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar funcionários do departamento %s: %w", deptCode, err)
	}
	return employees, nil
}

// EmployeesByPosition retorna os funcionários ativos do cargo
func (r *EmployeeRepository) EmployeesByPosition(ctx context.Context, positionCode string) ([]entities.Employee, error) {
	var employees []entities.Employee
	if err := r.active(ctx).Where("position_cd = ?", positionCode).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("erro ao buscar funcionários do cargo %s: %w", positionCode, err)
	}
	return employees, nil
}
