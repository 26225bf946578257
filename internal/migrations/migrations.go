package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed sql/*.sql
var files embed.FS

type migration struct {
	Name    string
	Version int
	Path    string
}

// Apply runs every embedded migration that schema_migrations has not
// recorded yet, in version order.
func Apply(ctx context.Context, db *sqlx.DB) error {
	return apply(ctx, db, files, "sql")
}

func apply(ctx context.Context, db *sqlx.DB, fsys fs.FS, dir string) error {
	if err := ensureTable(ctx, db); err != nil {
		return err
	}
	migs, err := listMigrations(fsys, dir)
	if err != nil {
		return err
	}
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}
	for _, mig := range migs {
		if applied[mig.Name] {
			continue
		}
		if err := applyMigration(ctx, db, fsys, mig); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id SERIAL PRIMARY KEY,
  version TEXT NULL,
  name TEXT NOT NULL UNIQUE,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func listMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	migs := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, _ := parseVersionNumber(entry.Name())
		migs = append(migs, migration{
			Name:    entry.Name(),
			Version: version,
			Path:    path.Join(dir, entry.Name()),
		})
	}
	sort.Slice(migs, func(i, j int) bool {
		if migs[i].Version != migs[j].Version {
			return migs[i].Version < migs[j].Version
		}
		return migs[i].Name < migs[j].Name
	})
	return migs, nil
}

func appliedMigrations(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	rows := []string{}
	if err := db.SelectContext(ctx, &rows, `SELECT name FROM schema_migrations`); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(rows))
	for _, name := range rows {
		names[name] = true
	}
	return names, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, fsys fs.FS, mig migration) error {
	content, err := fs.ReadFile(fsys, mig.Path)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("apply %s: %w", mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		nullIfEmpty(parseVersion(mig.Name)), mig.Name); err != nil {
		return err
	}
	return tx.Commit()
}

func parseVersion(name string) string {
	if !strings.HasPrefix(name, "V") {
		return ""
	}
	parts := strings.SplitN(name[1:], "__", 2)
	return strings.TrimSpace(parts[0])
}

func parseVersionNumber(name string) (int, bool) {
	raw := parseVersion(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
