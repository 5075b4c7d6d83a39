package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
)

func TestMemoryStatisticsCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatisticsCache(time.Minute)

	if _, found, err := c.Get(ctx, 1); found || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", found, err)
	}

	stats := []entities.Statistics{{StatID: 1, SurveyID: 1, ResponseCount: 3}}
	if err := c.Set(ctx, 1, stats); err != nil {
		t.Fatalf("Set: %v", err)
	}
	stats[0].ResponseCount = 99

	got, found, err := c.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if got[0].ResponseCount != 3 {
		t.Fatalf("cached value changed through caller slice: %d", got[0].ResponseCount)
	}
	got[0].ResponseCount = 42
	again, _, _ := c.Get(ctx, 1)
	if again[0].ResponseCount != 3 {
		t.Fatalf("cached value changed through returned slice: %d", again[0].ResponseCount)
	}

	if _, found, _ := c.Get(ctx, 2); found {
		t.Fatalf("surveys share cache entries")
	}

	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, found, _ := c.Get(ctx, 1); found {
		t.Fatalf("entry survived Invalidate")
	}
}

func TestMemoryStatisticsCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatisticsCache(20 * time.Millisecond)
	if err := c.Set(ctx, 1, []entities.Statistics{{StatID: 1}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, found, _ := c.Get(ctx, 1); found {
		t.Fatalf("entry should have expired")
	}
}

// countingDirectory conta as chamadas que chegam ao diretório real
type countingDirectory struct {
	calls     map[string]int
	employees []entities.Employee
	fail      bool
}

func newCountingDirectory(employees ...entities.Employee) *countingDirectory {
	return &countingDirectory{calls: make(map[string]int), employees: employees}
}

func (d *countingDirectory) AllEmployees(context.Context) ([]entities.Employee, error) {
	d.calls["all"]++
	if d.fail {
		return nil, errors.New("directory down")
	}
	return d.employees, nil
}

func (d *countingDirectory) FindEmployee(_ context.Context, empID string) (*entities.Employee, error) {
	d.calls["id:"+empID]++
	for i := range d.employees {
		if d.employees[i].EmpID == empID {
			e := d.employees[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (d *countingDirectory) EmployeesByDepartment(_ context.Context, deptCode string) ([]entities.Employee, error) {
	d.calls["dept:"+deptCode]++
	var out []entities.Employee
	for _, e := range d.employees {
		if e.DeptCode == deptCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *countingDirectory) EmployeesByPosition(_ context.Context, positionCode string) ([]entities.Employee, error) {
	d.calls["pos:"+positionCode]++
	var out []entities.Employee
	for _, e := range d.employees {
		if e.PositionCode == positionCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestCachedDirectory(t *testing.T) {
	ctx := context.Background()
	next := newCountingDirectory(
		entities.Employee{EmpID: "E1", DeptCode: "IT", PositionCode: "DEV", InUse: entities.Yes},
		entities.Employee{EmpID: "E2", DeptCode: "HR", PositionCode: "DEV", InUse: entities.Yes},
	)
	d := NewCachedDirectory(next, time.Minute)

	for i := 0; i < 3; i++ {
		all, err := d.AllEmployees(ctx)
		if err != nil || len(all) != 2 {
			t.Fatalf("AllEmployees = %d, %v", len(all), err)
		}
		it, err := d.EmployeesByDepartment(ctx, "IT")
		if err != nil || len(it) != 1 {
			t.Fatalf("EmployeesByDepartment = %d, %v", len(it), err)
		}
		devs, err := d.EmployeesByPosition(ctx, "DEV")
		if err != nil || len(devs) != 2 {
			t.Fatalf("EmployeesByPosition = %d, %v", len(devs), err)
		}
		e, err := d.FindEmployee(ctx, "E1")
		if err != nil || e == nil || e.EmpID != "E1" {
			t.Fatalf("FindEmployee(E1) = %v, %v", e, err)
		}
		ghost, err := d.FindEmployee(ctx, "GHOST")
		if err != nil || ghost != nil {
			t.Fatalf("FindEmployee(GHOST) = %v, %v", ghost, err)
		}
	}

	for key, n := range next.calls {
		if n != 1 {
			t.Fatalf("%s reached the directory %d times, want 1", key, n)
		}
	}
	if len(next.calls) != 5 {
		t.Fatalf("calls = %v", next.calls)
	}
}

func TestCachedDirectoryDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := newCountingDirectory()
	next.fail = true
	d := NewCachedDirectory(next, time.Minute)

	if _, err := d.AllEmployees(ctx); err == nil {
		t.Fatalf("AllEmployees should fail")
	}
	next.fail = false
	if _, err := d.AllEmployees(ctx); err != nil {
		t.Fatalf("AllEmployees after recovery: %v", err)
	}
	if next.calls["all"] != 2 {
		t.Fatalf("calls = %d, want 2", next.calls["all"])
	}
}
