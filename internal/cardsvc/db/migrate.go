package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const migrationTable = "schema_migrations"

// migrator is the per-backend half of applyMigrations.
type migrator interface {
	ensureTable(ctx context.Context) error
	isApplied(ctx context.Context, name string) (bool, error)
	// apply runs upSQL and records name in one transaction.
	apply(ctx context.Context, name, upSQL string) error
}

// applyMigrations runs every *.sql file under root in name order, at most once per file.
func applyMigrations(ctx context.Context, migrationFS fs.FS, root string, m migrator) error {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if err := m.ensureTable(ctx); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := m.isApplied(ctx, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		if err := m.apply(ctx, file, upSQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		log.Infof("applied migration %s", file)
	}

	return nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}
