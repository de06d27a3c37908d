package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"dtiestoque.org/internal/auth"
	"dtiestoque.org/internal/inventory"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return New(db), mock
}

var equipmentCols = []string{
	"id", "tipo_equipamento", "marca", "modelo", "patrimonio", "numero_serie",
	"status_equipamento", "local_id", "data_cadastro", "observacao",
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open("", 0); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestFindUserByEmail(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`(?s)select\s+id,\s*nome,\s*email,\s*senha,\s*permissao\s+from\s+usuarios\s+where\s+email\s*=\s*\$1`).
		WithArgs("ana@dti.br").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "email", "senha", "permissao"}).
			AddRow(int64(7), "Ana", "ana@dti.br", "$2a$10$hash", "admin"))

	u, err := s.FindUserByEmail(context.Background(), "ana@dti.br")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if u.ID != 7 || u.Name != "Ana" || u.PasswordHash != "$2a$10$hash" || u.Permission != "admin" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestFindUserByEmailErrors(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`from\s+usuarios`).WithArgs("ghost@dti.br").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`from\s+usuarios`).WithArgs("ana@dti.br").WillReturnError(errors.New("conn refused"))

	if _, err := s.FindUserByEmail(context.Background(), "ghost@dti.br"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	_, err := s.FindUserByEmail(context.Background(), "ana@dti.br")
	if !errors.Is(err, auth.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	s, mock := newStoreWithMock(t)
	q := `(?s)insert\s+into\s+usuarios\s*\(nome,\s*email,\s*senha,\s*permissao\)\s*values\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*returning\s+id`
	mock.ExpectQuery(q).
		WithArgs("Ana", "ana@dti.br", "hash", "usuario").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectQuery(q).
		WithArgs("Ana", "ana@dti.br", "hash", "usuario").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(q).
		WithArgs("Ana", "ana@dti.br", "hash", "usuario").
		WillReturnError(errors.New("timeout"))

	u := &auth.User{Name: "Ana", Email: "ana@dti.br", PasswordHash: "hash", Permission: "usuario"}
	id, err := s.CreateUser(context.Background(), u)
	if err != nil || id != 12 || u.ID != 12 {
		t.Fatalf("CreateUser: id=%d err=%v", id, err)
	}
	if _, err := s.CreateUser(context.Background(), u); !errors.Is(err, auth.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := s.CreateUser(context.Background(), u); !errors.Is(err, auth.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestListScansNullableColumns(t *testing.T) {
	s, mock := newStoreWithMock(t)
	registered := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)select\s+id,.*from\s+equipamentos\s+order\s+by\s+id\s+limit\s+\$1`).
		WithArgs(inventory.ListLimit).
		WillReturnRows(sqlmock.NewRows(equipmentCols).
			AddRow(int64(1), "Notebook", "Dell", "X1", nil, nil, "FUNCIONANDO", nil, nil, nil).
			AddRow(int64(2), "Monitor", "LG", "M2", "P-9", "SN-2", "QUEIMADO", int64(3), registered, "tela"))

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	first := items[0]
	if first.AssetTag != nil || first.SerialNumber != nil || first.LocationID != nil || first.RegisteredOn != nil || first.Note != nil {
		t.Fatalf("expected nulls on first row: %+v", first)
	}
	second := items[1]
	if *second.AssetTag != "P-9" || *second.LocationID != 3 || second.RegisteredOn.String() != "2024-03-01" || *second.Note != "tela" {
		t.Fatalf("unexpected second row: %+v", second)
	}
	if second.Status != inventory.StatusBurned {
		t.Fatalf("unexpected status: %s", second.Status)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`from\s+equipamentos`).WillReturnRows(sqlmock.NewRows(equipmentCols))
	items, err := s.List(context.Background())
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v %v", items, err)
	}
}

func TestCreateEquipmentPassesNulls(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`(?s)insert\s+into\s+equipamentos.*returning\s+id`).
		WithArgs("Notebook", "Dell", "X1", nil, nil, "FUNCIONANDO", int64(1), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(41)))

	loc := int64(1)
	blank := "  "
	id, err := s.Create(context.Background(), inventory.Fields{
		Type: "Notebook", Brand: "Dell", Model: "X1", Status: inventory.StatusFunctioning,
		LocationID: &loc, AssetTag: &blank,
	})
	if err != nil || id != 41 {
		t.Fatalf("Create: id=%d err=%v", id, err)
	}
}

func TestUpdateAndDeleteReportAffectedRows(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectExec(`(?s)update\s+equipamentos\s+set.*where\s+id\s*=\s*\$10`).
		WithArgs("Notebook", "Dell", "X1", nil, nil, "QUEIMADO", nil, nil, nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`delete\s+from\s+equipamentos\s+where\s+id\s*=\s*\$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`delete\s+from\s+equipamentos`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.Update(context.Background(), 5, inventory.Fields{Type: "Notebook", Brand: "Dell", Model: "X1", Status: inventory.StatusBurned})
	if err != nil || n != 1 {
		t.Fatalf("Update: n=%d err=%v", n, err)
	}
	if n, err := s.Delete(context.Background(), 5); err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if n, err := s.Delete(context.Background(), 5); err != nil || n != 0 {
		t.Fatalf("second Delete: n=%d err=%v", n, err)
	}
}

func TestMutationErrorsAreStorageErrors(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectExec(`delete\s+from\s+equipamentos`).WillReturnError(errors.New("broken pipe"))
	if _, err := s.Delete(context.Background(), 1); !errors.Is(err, inventory.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestReports(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`(?s)select\s+tipo_equipamento,\s*count\(\*\).*group\s+by\s+tipo_equipamento`).
		WillReturnRows(sqlmock.NewRows([]string{"tipo_equipamento", "count"}).AddRow("Notebook", int64(3)).AddRow("Monitor", int64(1)))
	mock.ExpectQuery(`(?s)select\s+status_equipamento,\s*count\(\*\).*group\s+by\s+status_equipamento`).
		WillReturnRows(sqlmock.NewRows([]string{"status_equipamento", "count"}).AddRow("FUNCIONANDO", int64(4)))
	mock.ExpectQuery(`select\s+count\(\*\)\s+from\s+equipamentos`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`(?s)filter\s*\(where\s+status_equipamento\s+like`).
		WithArgs(inventory.DiscardMarker).
		WillReturnRows(sqlmock.NewRows([]string{"total", "discard"}).AddRow(int64(4), int64(1)))

	ctx := context.Background()
	cats, err := s.CategoryCounts(ctx)
	if err != nil || len(cats) != 2 || cats[0] != (inventory.CategoryCount{Category: "Notebook", Count: 3}) {
		t.Fatalf("CategoryCounts: %+v %v", cats, err)
	}
	sts, err := s.StatusCounts(ctx)
	if err != nil || len(sts) != 1 || sts[0].Status != inventory.StatusFunctioning {
		t.Fatalf("StatusCounts: %+v %v", sts, err)
	}
	sum, err := s.Summary(ctx)
	if err != nil || sum.Total != 4 {
		t.Fatalf("Summary: %+v %v", sum, err)
	}
	c, err := s.Counts(ctx)
	if err != nil || c != (inventory.Counts{Total: 4, InStock: 4, Discard: 1}) {
		t.Fatalf("Counts: %+v %v", c, err)
	}
}

func TestCountsOnEmptyTable(t *testing.T) {
	s, mock := newStoreWithMock(t)
	mock.ExpectQuery(`filter`).
		WithArgs(inventory.DiscardMarker).
		WillReturnRows(sqlmock.NewRows([]string{"total", "discard"}).AddRow(int64(0), int64(0)))
	c, err := s.Counts(context.Background())
	if err != nil || c != (inventory.Counts{}) {
		t.Fatalf("Counts: %+v %v", c, err)
	}
}
