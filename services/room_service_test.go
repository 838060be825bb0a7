package services

import (
	"context"
	"sync"
	"testing"

	"hotel-rooms-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingSink captures emitted events synchronously so tests can
// assert on them without timing games.
type recordingSink struct {
	mu     sync.Mutex
	events []string
	fields []map[string]any
}

func (s *recordingSink) Emit(_ context.Context, name string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
	s.fields = append(s.fields, fields)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *RoomService, *recordingSink) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sink := &recordingSink{}
	svc := NewRoomService(db, sink, zap.NewNop())
	return mock, svc, sink
}

func roomRows(id uint, number int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "number", "type", "description", "price", "capacity", "status"}).
		AddRow(id, number, "single", "Single room", 50.0, 1, status)
}

func TestReserve_Success(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WithArgs(models.RoomStatusReserved, sqlmock.AnyArg(), uint(7), models.RoomStatusFree).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(roomRows(7, 101, models.RoomStatusReserved))

	room, err := svc.Reserve(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, uint(7), room.ID)
	assert.Equal(t, models.RoomStatusReserved, room.Status)
	assert.Equal(t, []string{"room_reserved"}, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_Conflict(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	// Conditional update matches nothing: the room exists but is taken.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WithArgs(models.RoomStatusReserved, sqlmock.AnyArg(), uint(7), models.RoomStatusFree).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(roomRows(7, 101, models.RoomStatusReserved))

	_, err := svc.Reserve(context.Background(), 7)

	assert.ErrorIs(t, err, ErrRoomNotAvailable)
	assert.Empty(t, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_NotFound(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WithArgs(models.RoomStatusReserved, sqlmock.AnyArg(), uint(999), models.RoomStatusFree).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Reserve(context.Background(), 999)

	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPay_Success(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms` WHERE .*FOR UPDATE").
		WillReturnRows(roomRows(7, 101, models.RoomStatusReserved))
	mock.ExpectExec("INSERT INTO `payments`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("UPDATE `rooms` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.Pay(context.Background(), 7, 50)

	require.NoError(t, err)
	assert.Equal(t, uint(7), payment.RoomID)
	assert.Equal(t, 50.0, payment.Amount)
	assert.NotEmpty(t, payment.Reference)
	assert.False(t, payment.Date.IsZero())
	assert.Equal(t, []string{"payment_processed"}, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPay_RollsBackWhenInsertFails(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms` WHERE .*FOR UPDATE").
		WillReturnRows(roomRows(7, 101, models.RoomStatusReserved))
	mock.ExpectExec("INSERT INTO `payments`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Pay(context.Background(), 7, 50)

	// The status flip never runs and the whole transaction rolls back:
	// no ledger entry without the flip, no flip without the entry.
	assert.Error(t, err)
	assert.Empty(t, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPay_NotFound(t *testing.T) {
	mock, svc, _ := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `rooms` WHERE .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.Pay(context.Background(), 999, 50)

	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPay_NegativeAmount(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	_, err := svc.Pay(context.Background(), 7, -1)

	// Rejected before any store access.
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Empty(t, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	mock, svc, sink := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `rooms`").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	room, err := svc.Create(context.Background(), models.Room{
		Number:   101,
		Type:     "single",
		Price:    50,
		Capacity: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), room.ID)
	assert.Equal(t, models.RoomStatusFree, room.Status)
	assert.Equal(t, []string{"room_created"}, sink.names())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		room models.Room
	}{
		{"negative price", models.Room{Number: 1, Price: -10, Capacity: 1}},
		{"zero capacity", models.Room{Number: 1, Price: 10, Capacity: 0}},
		{"negative capacity", models.Room{Number: 1, Price: 10, Capacity: -2}},
		{"unknown status", models.Room{Number: 1, Price: 10, Capacity: 1, Status: "occupied"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc, sink := setupMockDB(t)

			_, err := svc.Create(context.Background(), tt.room)

			// Nothing reaches the store.
			assert.ErrorIs(t, err, ErrInvalidRoom)
			assert.Empty(t, sink.names())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList(t *testing.T) {
	mock, svc, _ := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "number", "status"}).
		AddRow(1, 101, models.RoomStatusFree).
		AddRow(2, 102, models.RoomStatusReserved)
	mock.ExpectQuery("SELECT \\* FROM `rooms`").WillReturnRows(rows)

	rooms, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, 101, rooms[0].Number)
	assert.Equal(t, models.RoomStatusReserved, rooms[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
