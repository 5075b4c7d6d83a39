package migrations

import (
	"github.com/PavaniTiago/survey-api/internal/domain/entities"

	"gorm.io/gorm"
)

// Migrate cria ou ajusta as tabelas de pesquisa
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Survey{},
		&entities.Question{},
		&entities.Choice{},
		&entities.Target{},
		&entities.Response{},
		&entities.ResponseDetail{},
		&entities.Statistics{},
		&entities.Employee{},
	)
}
