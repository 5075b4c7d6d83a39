package usecases

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/PavaniTiago/survey-api/internal/infrastructure/database/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const admin = "admin01"

// stubDirectory atende o diretório de funcionários a partir de uma lista fixa
type stubDirectory struct {
	employees []entities.Employee
}

func (d *stubDirectory) AllEmployees(context.Context) ([]entities.Employee, error) {
	return d.employees, nil
}

func (d *stubDirectory) FindEmployee(_ context.Context, empID string) (*entities.Employee, error) {
	for i := range d.employees {
		if d.employees[i].EmpID == empID {
			e := d.employees[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (d *stubDirectory) EmployeesByDepartment(_ context.Context, deptCode string) ([]entities.Employee, error) {
	var out []entities.Employee
	for _, e := range d.employees {
		if e.DeptCode == deptCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *stubDirectory) EmployeesByPosition(_ context.Context, positionCode string) ([]entities.Employee, error) {
	var out []entities.Employee
	for _, e := range d.employees {
		if e.PositionCode == positionCode {
			out = append(out, e)
		}
	}
	return out, nil
}

// mapCache é um StatisticsCache em mapa que conta as leituras atendidas
type mapCache struct {
	entries map[int64][]entities.Statistics
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[int64][]entities.Statistics)}
}

func (c *mapCache) Get(_ context.Context, surveyID int64) ([]entities.Statistics, bool, error) {
	stats, ok := c.entries[surveyID]
	if ok {
		c.hits++
	}
	return stats, ok, nil
}

func (c *mapCache) Set(_ context.Context, surveyID int64, stats []entities.Statistics) error {
	c.entries[surveyID] = stats
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, surveyID int64) error {
	delete(c.entries, surveyID)
	return nil
}

type fixture struct {
	store     repositories.Store
	directory *stubDirectory
	cache     *mapCache
	now       time.Time
	uc        *UseCases
}

func (f *fixture) clock() time.Time { return f.now }

func newTestStore(t *testing.T) repositories.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
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

	if err := migrations.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := migrations.AddIndexes(db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return repositories.NewStore(db, sql.LevelDefault)
}

func newFixture(t *testing.T, employees ...entities.Employee) *fixture {
	t.Helper()
	f := &fixture{
		store:     newTestStore(t),
		directory: &stubDirectory{employees: employees},
		cache:     newMapCache(),
		now:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.uc = New(f.store, f.directory, f.cache, Options{
		StoreTimeout:    5 * time.Second,
		Location:        time.UTC,
		AnonymousSecret: "test-secret",
		Now:             f.clock,
	})
	return f
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func (f *fixture) survey(t *testing.T, def SurveyDefinition) *entities.Survey {
	t.Helper()
	if def.Title == "" {
		def.Title = "Pesquisa de clima"
	}
	if def.Type == "" {
		def.Type = entities.SurveySatisfaction
	}
	s, err := f.uc.Surveys.CreateSurvey(context.Background(), def, admin)
	if err != nil {
		t.Fatalf("CreateSurvey: %v", err)
	}
	return s
}

func (f *fixture) question(t *testing.T, surveyID int64, spec QuestionSpec) *entities.Question {
	t.Helper()
	if spec.Title == "" {
		spec.Title = "Pergunta"
	}
	q, err := f.uc.Questions.AppendQuestion(context.Background(), surveyID, spec, admin)
	if err != nil {
		t.Fatalf("AppendQuestion: %v", err)
	}
	return q
}

func (f *fixture) choice(t *testing.T, questionID int64, spec ChoiceSpec) *entities.Choice {
	t.Helper()
	c, err := f.uc.Choices.AppendChoice(context.Background(), questionID, spec, admin)
	if err != nil {
		t.Fatalf("AppendChoice: %v", err)
	}
	return c
}

func (f *fixture) activate(t *testing.T, surveyID int64) {
	t.Helper()
	if _, err := f.uc.Surveys.Activate(context.Background(), surveyID, admin); err != nil {
		t.Fatalf("Activate: %v", err)
	}
}

func (f *fixture) start(t *testing.T, surveyID int64, empID string) *entities.Response {
	t.Helper()
	r, err := f.uc.Responses.StartResponse(context.Background(), surveyID, Respondent{EmpID: empID})
	if err != nil {
		t.Fatalf("StartResponse(%s): %v", empID, err)
	}
	return r
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %s", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (err: %v)", got, kind, err)
	}
}

func orders(questions []entities.Question) []int {
	out := make([]int, len(questions))
	for i, q := range questions {
		out[i] = q.Order
	}
	return out
}

func titles(questions []entities.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
