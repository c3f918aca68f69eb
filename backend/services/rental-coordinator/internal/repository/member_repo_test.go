package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

func TestMemberGet(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("m-1").
		WillReturnRows(pgxmock.NewRows([]string{"uid", "name", "balance_points", "status"}).
			AddRow("m-1", "Sam", int64(20000), models.MemberStatusActive))

	repo := NewMemberRepository(mock)
	m, err := repo.Get(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("Get returned err: %v", err)
	}
	if m.BalancePoints != 20000 || m.Status != models.MemberStatusActive {
		t.Fatalf("member = %+v", m)
	}
}

func TestMemberGetNotFound(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"uid", "name", "balance_points", "status"}))

	repo := NewMemberRepository(mock)
	if _, err := repo.Get(context.Background(), "ghost"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestCASBalance(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs("m-1", int64(20000), int64(15000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs("m-1", int64(20000), int64(15000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewMemberRepository(mock)
	ok, err := repo.CASBalance(context.Background(), "m-1", 20000, 15000)
	if err != nil || !ok {
		t.Fatalf("first CAS = (%v, %v), want win", ok, err)
	}
	ok, err = repo.CASBalance(context.Background(), "m-1", 20000, 15000)
	if err != nil || ok {
		t.Fatalf("second CAS = (%v, %v), want loss on moved balance", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
