package store

import (
	"strings"
	"testing"
)

func migrationIndex(name string) int {
	for i, m := range migrations {
		if m.name == name {
			return i
		}
	}
	return -1
}

func TestMigrationOrderSatisfiesForeignKeys(t *testing.T) {
	jobs := migrationIndex("jobs")
	results := migrationIndex("scan_results")

	if jobs == -1 || results == -1 {
		t.Fatalf("Expected jobs and scan_results migrations, got indexes %d/%d", jobs, results)
	}

	// scan_results declares REFERENCES jobs(id); creating it first fails
	// on an empty database.
	if jobs >= results {
		t.Errorf("jobs migration (index %d) must run before scan_results (index %d)", jobs, results)
	}

	for _, m := range migrations {
		if m.name != "jobs" && strings.Contains(m.query, "REFERENCES jobs") && migrationIndex(m.name) < jobs {
			t.Errorf("Migration %q references jobs but runs before it", m.name)
		}
	}
}

func TestMigrationsCreateDeclaredTables(t *testing.T) {
	for _, m := range migrations {
		if !strings.Contains(m.query, "CREATE TABLE IF NOT EXISTS "+m.name) {
			t.Errorf("Migration %q does not create the table it is named for", m.name)
		}
	}
}
