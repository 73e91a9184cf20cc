package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planflow/planboard-api/internal/models"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Snapshot queries scan one collection at a time
		{"documents", "idx_documents_collection", "collection"},
		{"documents", "idx_documents_updated_at", "updated_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(&models.Document{}, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
