package cache

import (
	"context"
	"time"

	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	gocache "github.com/patrickmn/go-cache"
)

// CachedDirectory evita ir ao banco a cada resolução de público-alvo
type CachedDirectory struct {
	next  usecases.Directory
	cache *gocache.Cache
}

func NewCachedDirectory(next usecases.Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (d *CachedDirectory) employees(key string, load func() ([]entities.Employee, error)) ([]entities.Employee, error) {
	if cached, found := d.cache.Get(key); found {
		if employees, ok := cached.([]entities.Employee); ok {
			return employees, nil
		}
	}
	employees, err := load()
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(key, employees)
	return employees, nil
}

func (d *CachedDirectory) AllEmployees(ctx context.Context) ([]entities.Employee, error) {
	return d.employees("emp:all", func() ([]entities.Employee, error) {
		return d.next.AllEmployees(ctx)
	})
}

func (d *CachedDirectory) EmployeesByDepartment(ctx context.Context, deptCode string) ([]entities.Employee, error) {
	return d.employees("emp:dept:"+deptCode, func() ([]entities.Employee, error) {
		return d.next.EmployeesByDepartment(ctx, deptCode)
	})
}

func (d *CachedDirectory) EmployeesByPosition(ctx context.Context, positionCode string) ([]entities.Employee, error) {
	return d.employees("emp:pos:"+positionCode, func() ([]entities.Employee, error) {
		return d.next.EmployeesByPosition(ctx, positionCode)
	})
}

// FindEmployee também guarda matrículas desconhecidas para não repetir a consulta
func (d *CachedDirectory) FindEmployee(ctx context.Context, empID string) (*entities.Employee, error) {
	key := "emp:id:" + empID
	if cached, found := d.cache.Get(key); found {
		if employee, ok := cached.(*entities.Employee); ok {
			return employee, nil
		}
	}
	employee, err := d.next.FindEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(key, employee)
	return employee, nil
}
