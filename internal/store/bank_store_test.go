package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

func newMockStore(t *testing.T) (*BankStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return &BankStore{db: db}, mock
}

func TestBankStore_Save(t *testing.T) {
	s, mock := newMockStore(t)

	bank := &calibration.Bank{Items: map[string]models.Item{
		"q1": {ID: "q1", B: -0.5, A: 1.0, C: 0.25, AttemptCount: 10, CorrectCount: 7, MeanResponseTime: 12.3},
	}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO items").
		WithArgs("q1", -0.5, 1.0, 0.25, 10, 7, 12.3, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.Save(bank)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankStore_Save_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	bank := &calibration.Bank{Items: map[string]models.Item{
		"q1": {ID: "q1", B: 0, A: 1, C: 0.25},
	}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").WillReturnError(assertErr)
	mock.ExpectRollback()

	err := s.Save(bank)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankStore_Load(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "b", "a", "c", "attempt_count", "correct_count", "mean_response_time", "uncalibrated"}).
		AddRow("q1", -0.5, 1.0, 0.25, 10, 7, 12.3, false)
	mock.ExpectQuery("SELECT id, b, a, c, attempt_count, correct_count, mean_response_time, uncalibrated FROM items").
		WillReturnRows(rows)

	bank, err := s.Load()
	require.NoError(t, err)
	item, ok := bank.Get("q1")
	require.True(t, ok)
	assert.Equal(t, -0.5, item.B)
	assert.Equal(t, 7, item.CorrectCount)
}

var assertErr = sqlmockErr("delete failed")

type sqlmockErr string

func (e sqlmockErr) Error() string { return string(e) }
