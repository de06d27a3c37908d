package migrate

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSplitStatementsKeepsQuotedSemicolons(t *testing.T) {
	src := "-- header; ignored\ninsert into t values ('a;b');\n\ninsert into t values ('it''s');\nselect 1"
	got := splitStatements(src)
	if len(got) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(got), got)
	}
	if !strings.Contains(got[0], "'a;b'") {
		t.Fatalf("quoted semicolon split: %q", got[0])
	}
	if strings.Contains(got[0], "header") {
		t.Fatalf("comment line kept: %q", got[0])
	}
	if strings.TrimSpace(got[2]) != "select 1" {
		t.Fatalf("trailing statement lost: %q", got[2])
	}
}

func TestCollectSQLSortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("select 2;")},
		"0001_a.sql":   {Data: []byte("select 1;")},
		"README.md":    {Data: []byte("docs")},
		"nested/x.sql": {Data: []byte("select 3;")},
	}
	files, err := collectSQL(fsys, ".sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if strings.Join(files, ",") != "0001_a.sql,0002_b.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestEmbeddedMigrationsAreGooseAnnotated(t *testing.T) {
	files, err := collectSQL(Migrations(), ".sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) < 2 {
		t.Fatalf("expected schema files, got %v", files)
	}
	var joined strings.Builder
	for _, name := range files {
		raw, err := fs.ReadFile(Migrations(), name)
		if err != nil {
			t.Fatal(err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s lacks goose annotations", name)
		}
		joined.WriteString(body)
	}
	for _, table := range []string{"usuarios", "equipamentos"} {
		if !strings.Contains(joined.String(), "create table if not exists "+table) {
			t.Fatalf("no migration creates %s", table)
		}
	}
}

func TestSeedAppliesPendingFilesOnce(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	seeds := fstest.MapFS{
		"0001_done.sql": {Data: []byte("insert into x values (1);")},
		"0002_new.sql":  {Data: []byte("insert into x values ('a;b');\ninsert into x values (2);")},
	}
	mgr := NewManager(db, WithSeeds(seeds), WithSeedsTable("seeds_test"))

	mock.ExpectExec(`create table if not exists seeds_test`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from seeds_test`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_done.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(`insert into x values \('a;b'\)`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`insert into x values \(2\)`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`insert into seeds_test`).
		WithArgs("0002_new.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := mgr.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	seeds := fstest.MapFS{"0001_bad.sql": {Data: []byte("insert into x values (1);")}}
	mgr := NewManager(db, WithSeeds(seeds))

	mock.ExpectExec(`create table if not exists schema_seeds`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from schema_seeds`).WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(`insert into x`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = mgr.Seed(context.Background())
	if err == nil || !strings.Contains(err.Error(), "0001_bad.sql") {
		t.Fatalf("expected seed failure naming the file, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrationStateString(t *testing.T) {
	s := MigrationState{Name: "00001_create_usuarios.sql"}
	if got := s.String(); got != "00001_create_usuarios.sql\tpending" {
		t.Fatalf("unexpected: %q", got)
	}
}
