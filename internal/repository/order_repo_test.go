package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return NewOrderRepository(gdb), mock
}

func TestGetByOrderID(t *testing.T) {
	repo, mock := setupRepoTest(t)

	rows := sqlmock.NewRows([]string{"id", "order_id", "first_name", "last_name", "email", "status", "total"}).
		AddRow(1, "ACN-abc", "Awa", "Diallo", "awa@example.com", "pending", 16.00)
	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE order_id = \\?").
		WillReturnRows(rows)

	o, err := repo.GetByOrderID("ACN-abc")
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if o.OrderID != "ACN-abc" || o.Total != 16.00 {
		t.Errorf("unexpected order: %+v", o)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGetByOrderIDNotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE order_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	if _, err := repo.GetByOrderID("ACN-missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListRecent(t *testing.T) {
	repo, mock := setupRepoTest(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "order_id", "created_at"}).
		AddRow(2, "ACN-2", now).
		AddRow(1, "ACN-1", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT \\* FROM `orders` ORDER BY created_at DESC").
		WillReturnRows(rows)

	out, err := repo.ListRecent(500)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(out) != 2 || out[0].OrderID != "ACN-2" {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE `orders` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.UpdateStatus("ACN-missing", "confirmed", nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on zero rows, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE `orders` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows([]string{"id", "order_id", "status"}).
		AddRow(1, "ACN-abc", "confirmed")
	mock.ExpectQuery("SELECT \\* FROM `orders` WHERE order_id = \\?").
		WillReturnRows(rows)

	o, err := repo.UpdateStatus("ACN-abc", "confirmed", nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if o.Status != "confirmed" {
		t.Errorf("expected confirmed, got %q", o.Status)
	}
}

func TestCount(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(42))

	n, err := repo.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
}
