package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-rooms-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventSink records lifecycle events. Implementations must not block and
// must swallow their own failures.
type EventSink interface {
	Emit(ctx context.Context, name string, fields map[string]any)
}

// RoomService owns every transition of the Room.Status column.
type RoomService struct {
	db     *gorm.DB
	sink   EventSink
	logger *zap.Logger
}

func NewRoomService(db *gorm.DB, sink EventSink, logger *zap.Logger) *RoomService {
	return &RoomService{db: db, sink: sink, logger: logger}
}

// List returns all rooms in store-native order.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Create validates and inserts a new room. Status defaults to free.
func (s *RoomService) Create(ctx context.Context, room models.Room) (models.Room, error) {
	if room.Price < 0 {
		return models.Room{}, fmt.Errorf("%w: price must not be negative", ErrInvalidRoom)
	}
	if room.Capacity <= 0 {
		return models.Room{}, fmt.Errorf("%w: capacity must be positive", ErrInvalidRoom)
	}
	switch room.Status {
	case "":
		room.Status = models.RoomStatusFree
	case models.RoomStatusFree, models.RoomStatusReserved:
	default:
		return models.Room{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRoom, room.Status)
	}

	if err := s.db.WithContext(ctx).Create(&room).Error; err != nil {
		return models.Room{}, err
	}

	s.sink.Emit(ctx, "room_created", map[string]any{
		"room_id": room.ID,
		"number":  room.Number,
	})
	return room, nil
}

// Reserve moves a room from free to reserved. The check and the write are
// one conditional UPDATE keyed on the current status, so concurrent
// callers serialize on the row and exactly one of them wins; the losers
// see the room as taken.
func (s *RoomService) Reserve(ctx context.Context, id uint) (models.Room, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ? AND status = ?", id, models.RoomStatusFree).
		Update("status", models.RoomStatusReserved)
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("reserve room %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		// Nothing matched: either the room doesn't exist or it isn't free.
		var room models.Room
		err := s.db.WithContext(ctx).First(&room, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		if err != nil {
			return models.Room{}, fmt.Errorf("reserve room %d: %w", id, err)
		}
		s.logger.Debug("reserve lost to current status",
			zap.Uint("room_id", id),
			zap.String("status", room.Status),
		)
		return models.Room{}, ErrRoomNotAvailable
	}

	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return models.Room{}, fmt.Errorf("reload room %d: %w", id, err)
	}

	s.sink.Emit(ctx, "room_reserved", map[string]any{
		"room_id": room.ID,
		"number":  room.Number,
	})
	return room, nil
}

// Pay appends a ledger entry for the room and frees it again. Both writes
// run in one transaction: a payment row without the status flip (or the
// reverse) can never be observed or persisted.
//
// Payment is accepted whatever the current status; a room that was never
// reserved still gets a valid ledger entry.
func (s *RoomService) Pay(ctx context.Context, id uint, amount float64) (models.Payment, error) {
	if amount < 0 {
		return models.Payment{}, ErrNegativeAmount
	}

	var payment models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("lock room %d: %w", id, err)
		}

		payment = models.Payment{
			Reference: uuid.New().String(),
			RoomID:    room.ID,
			Amount:    amount,
			Date:      time.Now().UTC(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		if err := tx.Model(&room).Update("status", models.RoomStatusFree).Error; err != nil {
			return fmt.Errorf("free room %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	s.sink.Emit(ctx, "payment_processed", map[string]any{
		"room_id":   id,
		"amount":    amount,
		"reference": payment.Reference,
	})
	return payment, nil
}
