package db

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate применяет миграции диалекта текущего драйвера по порядку имён файлов.
func (db *DB) Migrate() error {
	db.log.Debug("running tasksDB migrations", "dialect", db.dialect)

	dir := path.Join("migrations", db.dialect)
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("read %s migrations: %w", db.dialect, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		q, err := fs.ReadFile(migrations, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.conn.Exec(string(q)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	db.log.Debug("tasksDB migrations finished", "applied", len(names))
	return nil
}
