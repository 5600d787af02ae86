package db

import (
	"log"

	"bts/src/config"
	"bts/src/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()))
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}

func Migrate() error {
	return GetDb().AutoMigrate(
		&models.User{},
		&models.UserDevice{},
		&models.Category{},
		&models.Event{},
		&models.Performer{},
		&models.EventPerformer{},
		&models.TicketType{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentTransaction{},
		&models.Ticket{},
		&models.TicketScan{},
		&models.Notification{},
	)
}
