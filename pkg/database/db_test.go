package database

import (
	"testing"

	"github.com/arnavshah/seat-lottery-go/pkg/config"
)

func TestOpenMigratesSqlite(t *testing.T) {
	db, err := Open(config.Config{DataPath: "file:dbtest?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for _, table := range []string{"kv_entries", "master_users"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing", table)
		}
	}
	if !db.Migrator().HasColumn(&Entry{}, "entry_key") {
		t.Error("kv_entries.entry_key missing")
	}
}
