package config

import (
	"log"
	"os"
	"time"

	"hotel-rooms-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Room{},
		&models.Payment{},
	); err != nil {
		return nil, err
	}

	if err := SeedRooms(db); err != nil {
		log.Printf("warning: room seeding failed: %v", err)
	}

	return db, nil
}

// SeedRooms inserts a small default inventory on first boot. A non-empty
// rooms table is left alone.
func SeedRooms(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rooms := []models.Room{
		{Number: 101, Type: "single", Description: "Single room, street side", Price: 50, Capacity: 1, Status: models.RoomStatusFree},
		{Number: 102, Type: "double", Description: "Double room, street side", Price: 80, Capacity: 2, Status: models.RoomStatusFree},
		{Number: 201, Type: "double", Description: "Double room, garden side", Price: 90, Capacity: 2, Status: models.RoomStatusFree},
		{Number: 301, Type: "suite", Description: "Suite with terrace", Price: 180, Capacity: 4, Status: models.RoomStatusFree},
	}
	if err := db.Create(&rooms).Error; err != nil {
		return err
	}

	log.Printf("seeded %d default rooms", len(rooms))
	return nil
}
