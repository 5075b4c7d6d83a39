package usecases

import (
	"context"
	"sort"
	"strings"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
)

// TargetSpec descreve uma regra de público-alvo
type TargetSpec struct {
	Type        entities.TargetType `json:"type"`
	Value       string              `json:"value"`
	Description string              `json:"description"`
}

func (s TargetSpec) validate() error {
	if !s.Type.Valid() {
		return validationError("tipo de público-alvo inválido: %q", s.Type)
	}
	if s.Type != entities.TargetAll && strings.TrimSpace(s.Value) == "" {
		return validationError("público-alvo %s exige um valor", s.Type)
	}
	return nil
}

// TargetUseCase resolve quem pode responder uma pesquisa
type TargetUseCase struct {
	base
	directory Directory
}

func NewTargetUseCase(store repositories.Store, directory Directory, opts Options) *TargetUseCase {
	return &TargetUseCase{base: newBase(store, opts), directory: directory}
}

// AddTarget adiciona uma regra. ALL não convive com nenhuma outra regra na mesma pesquisa.
func (u *TargetUseCase) AddTarget(ctx context.Context, surveyID int64, spec TargetSpec, actor string) (*entities.Target, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	target := &entities.Target{
		SurveyID:    surveyID,
		Type:        spec.Type,
		Value:       strings.TrimSpace(spec.Value),
		Description: spec.Description,
	}
	if target.IsAllEmployees() {
		target.Value = ""
	}

	err := u.tx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Surveys().FindByIDForUpdate(ctx, surveyID); err != nil {
			return err
		}
		existing, err := tx.Targets().ListBySurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		for _, t := range existing {
			switch {
			case t.IsAllEmployees():
				return validationError("pesquisa %d já é destinada a todos os funcionários", surveyID)
			case target.IsAllEmployees():
				return validationError("pesquisa %d já possui público-alvo específico", surveyID)
			case t.Type == target.Type && t.Value == target.Value:
				return validationError("público-alvo %s=%s já cadastrado", t.Type, t.Value)
			}
		}
		target.Stamp(actor, u.clock())
		return tx.Targets().Create(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// RemoveTarget exclui logicamente uma regra da pesquisa
func (u *TargetUseCase) RemoveTarget(ctx context.Context, surveyID, targetID int64, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return u.run(ctx, func(ctx context.Context) error {
		target, err := u.store.Targets().FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target.SurveyID != surveyID {
			return newError(KindNotFound, "público-alvo %d não pertence à pesquisa %d", targetID, surveyID)
		}
		return u.store.Targets().SoftDelete(ctx, targetID, actor, u.clock())
	})
}

func (u *TargetUseCase) ListTargets(ctx context.Context, surveyID int64) ([]entities.Target, error) {
	var targets []entities.Target
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		var err error
		targets, err = u.store.Targets().ListBySurvey(ctx, surveyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// ResolveRespondents expande as regras em matrículas, sem repetição e em ordem crescente
func (u *TargetUseCase) ResolveRespondents(ctx context.Context, surveyID int64) ([]string, error) {
	var resolved []string
	err := u.run(ctx, func(ctx context.Context) error {
		if _, err := u.store.Surveys().FindByID(ctx, surveyID, false); err != nil {
			return err
		}
		targets, err := u.store.Targets().ListBySurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		resolved, err = u.expand(ctx, targets)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (u *TargetUseCase) expand(ctx context.Context, targets []entities.Target) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(employees []entities.Employee) {
		for _, e := range employees {
			if e.InUse {
				seen[e.EmpID] = struct{}{}
			}
		}
	}

	for _, t := range targets {
		switch t.Type {
		case entities.TargetAll:
			employees, err := u.directory.AllEmployees(ctx)
			if err != nil {
				return nil, err
			}
			add(employees)
		case entities.TargetDepartment:
			employees, err := u.directory.EmployeesByDepartment(ctx, t.Value)
			if err != nil {
				return nil, err
			}
			add(employees)
		case entities.TargetPosition:
			employees, err := u.directory.EmployeesByPosition(ctx, t.Value)
			if err != nil {
				return nil, err
			}
			add(employees)
		case entities.TargetEmployee:
			employee, err := u.directory.FindEmployee(ctx, t.Value)
			if err != nil {
				return nil, err
			}
			if employee != nil {
				add([]entities.Employee{*employee})
			}
		}
	}

	resolved := make([]string, 0, len(seen))
	for empID := range seen {
		resolved = append(resolved, empID)
	}
	sort.Strings(resolved)
	return resolved, nil
}

// IsEligible indica se o funcionário pode responder. Pesquisa sem regras aceita qualquer um.
func (u *TargetUseCase) IsEligible(ctx context.Context, surveyID int64, empID string) (bool, error) {
	var eligible bool
	err := u.run(ctx, func(ctx context.Context) error {
		targets, err := u.store.Targets().ListBySurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		eligible, err = u.eligible(ctx, targets, empID)
		return err
	})
	return eligible, err
}

func (u *TargetUseCase) eligible(ctx context.Context, targets []entities.Target, empID string) (bool, error) {
	if len(targets) == 0 {
		return true, nil
	}
	employee, err := u.directory.FindEmployee(ctx, empID)
	if err != nil {
		return false, err
	}
	if employee == nil || !employee.InUse {
		return false, nil
	}
	for _, t := range targets {
		switch t.Type {
		case entities.TargetAll:
			return true, nil
		case entities.TargetEmployee:
			if t.Value == employee.EmpID {
				return true, nil
			}
		case entities.TargetDepartment:
			if t.Value == employee.DeptCode {
				return true, nil
			}
		case entities.TargetPosition:
			if t.Value == employee.PositionCode {
				return true, nil
			}
		}
	}
	return false, nil
}
