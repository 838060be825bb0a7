package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hotel-rooms-backend/models"
	"hotel-rooms-backend/services"
	"hotel-rooms-backend/utils"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RoomLifecycle is the slice of the room service the HTTP layer needs.
type RoomLifecycle interface {
	List(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room models.Room) (models.Room, error)
	Reserve(ctx context.Context, id uint) (models.Room, error)
	Pay(ctx context.Context, id uint, amount float64) (models.Payment, error)
}

type RoomController struct {
	svc    RoomLifecycle
	logger *zap.Logger
}

func NewRoomController(svc RoomLifecycle, logger *zap.Logger) *RoomController {
	return &RoomController{svc: svc, logger: logger}
}

type CreateRoomRequest struct {
	Number      int            `json:"number"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Capacity    int            `json:"capacity"`
	Status      string         `json:"status"`
	Amenities   datatypes.JSON `json:"amenities"`
}

type PayRoomRequest struct {
	Amount float64 `json:"amount"`
}

// GET /rooms
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.svc.List(c.Request.Context())
	if err != nil {
		ctrl.logger.Error("error fetching rooms", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// POST /rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	room, err := ctrl.svc.Create(c.Request.Context(), models.Room{
		Number:      req.Number,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Status:      req.Status,
		Amenities:   req.Amenities,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidRoom) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		if isDuplicateEntry(err) {
			utils.JSONError(c, http.StatusConflict, "Room number already exists")
			return
		}
		ctrl.logger.Error("error creating room", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create room")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// POST /rooms/:id/reserve
func (ctrl *RoomController) ReserveRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Room not found")
		return
	}

	room, err := ctrl.svc.Reserve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.JSONError(c, http.StatusNotFound, "Room not found")
		case errors.Is(err, services.ErrRoomNotAvailable):
			utils.JSONError(c, http.StatusBadRequest, "Room is not available")
		default:
			ctrl.logger.Error("error reserving room", zap.Uint("room_id", id), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to reserve room")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room reserved successfully",
		"room":    room,
	})
}

// POST /rooms/:id/pay
func (ctrl *RoomController) PayRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Room not found")
		return
	}

	var req PayRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payment, err := ctrl.svc.Pay(c.Request.Context(), id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.JSONError(c, http.StatusNotFound, "Room not found")
		case errors.Is(err, services.ErrNegativeAmount):
			utils.JSONError(c, http.StatusBadRequest, "Amount must not be negative")
		default:
			ctrl.logger.Error("error processing payment", zap.Uint("room_id", id), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to process payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful",
		"payment": payment,
	})
}

// roomIDParam parses :id. A non-numeric id can't name any room, so it
// reads as not found rather than bad request.
func roomIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
