package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Chitresh-code/doc-sign/pkg/config"
)

// NewPostgresConnection opens a gorm connection to Postgres.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which repositories rely on to serialize
// concurrent sign/summarize attempts.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
}
