package migrations

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestSplitStatements(t *testing.T) {
	input := `-- header comment
CREATE TABLE a (x UInt8) ENGINE = Memory;

  -- indented comment
CREATE TABLE b (y String)
ENGINE = Memory;
`
	stmts := splitStatements(input)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.HasPrefix(stmts[0], "CREATE TABLE a") {
		t.Errorf("unexpected first statement %q", stmts[0])
	}
	if strings.Contains(stmts[1], "--") {
		t.Errorf("comment leaked into statement %q", stmts[1])
	}
}

func TestCheckSplittable(t *testing.T) {
	if err := checkSplittable("SELECT 'it''s fine'; SELECT 1;"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := checkSplittable("INSERT INTO t VALUES ('a;b');")
	if !errors.Is(err, ErrSemicolonInString) {
		t.Errorf("expected ErrSemicolonInString, got %v", err)
	}
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default:@localhost:9000/status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != "status" {
		t.Errorf("db = %q", db)
	}

	if _, err := databaseFromDSN("clickhouse://localhost:9000"); err == nil {
		t.Error("expected error for dsn without database")
	}
}

func TestApplyFiles_LexicalOrderSkipsEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"pg/002_b.sql": {Data: []byte("B")},
		"pg/001_a.sql": {Data: []byte("A")},
		"pg/003_c.sql": {Data: []byte("  \n")},
		"pg/readme.md": {Data: []byte("ignored")},
	}

	var applied []string
	err := applyFiles(fsys, "pg", func(file, content string) error {
		applied = append(applied, content)
		return nil
	})
	if err != nil {
		t.Fatalf("applyFiles: %v", err)
	}
	if strings.Join(applied, "") != "AB" {
		t.Errorf("applied %v", applied)
	}
}

func TestEmbeddedMigrationsAreSplittable(t *testing.T) {
	files, err := fs.Glob(ClickhouseFS, "clickhouse/*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("no embedded clickhouse migrations: %v", err)
	}
	for _, file := range files {
		data, _ := fs.ReadFile(ClickhouseFS, file)
		if err := checkSplittable(string(data)); err != nil {
			t.Errorf("%s: %v", file, err)
		}
		if len(splitStatements(string(data))) == 0 {
			t.Errorf("%s: no statements", file)
		}
	}
}
