package repository

import (
	"context"
	"testing"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&entities.Employee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEmployees(t *testing.T, db *gorm.DB) {
	t.Helper()
	employees := []entities.Employee{
		{EmpID: "E2", Name: "Bruna", DeptCode: "IT", PositionCode: "MGR", InUse: entities.Yes},
		{EmpID: "E1", Name: "Ana", DeptCode: "IT", PositionCode: "DEV", InUse: entities.Yes},
		{EmpID: "E3", Name: "Caio", DeptCode: "HR", PositionCode: "DEV", InUse: entities.Yes},
		{EmpID: "E4", Name: "Davi", DeptCode: "IT", PositionCode: "DEV", InUse: entities.Yes},
	}
	if err := db.Create(&employees).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	// use_yn tem default 'Y', então o desligamento é gravado depois
	if err := db.Model(&entities.Employee{}).Where("emp_id = ?", "E4").Update("use_yn", entities.No).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
}

func empIDs(employees []entities.Employee) []string {
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.EmpID
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEmployeeRepository(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	all, err := repo.AllEmployees(ctx)
	if err != nil {
		t.Fatalf("AllEmployees: %v", err)
	}
	if got, want := empIDs(all), []string{"E1", "E2", "E3"}; !sameIDs(got, want) {
		t.Fatalf("AllEmployees = %v, want %v", got, want)
	}

	it, err := repo.EmployeesByDepartment(ctx, "IT")
	if err != nil {
		t.Fatalf("EmployeesByDepartment: %v", err)
	}
	if got, want := empIDs(it), []string{"E1", "E2"}; !sameIDs(got, want) {
		t.Fatalf("EmployeesByDepartment = %v, want %v", got, want)
	}

	devs, err := repo.EmployeesByPosition(ctx, "DEV")
	if err != nil {
		t.Fatalf("EmployeesByPosition: %v", err)
	}
	if got, want := empIDs(devs), []string{"E1", "E3"}; !sameIDs(got, want) {
		t.Fatalf("EmployeesByPosition = %v, want %v", got, want)
	}

	e, err := repo.FindEmployee(ctx, "E2")
	if err != nil || e == nil || e.Name != "Bruna" || !bool(e.InUse) {
		t.Fatalf("FindEmployee(E2) = %+v, %v", e, err)
	}
	for _, id := range []string{"E4", "NOPE"} {
		e, err := repo.FindEmployee(ctx, id)
		if err != nil || e != nil {
			t.Fatalf("FindEmployee(%s) = %+v, %v; want nil", id, e, err)
		}
	}
}
