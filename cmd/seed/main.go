// Command seed installs the default week, the service catalog and the
// first staff account. Running it again changes nothing that exists.
package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/logger"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

var defaultHours = []models.BusinessHours{
	{Weekday: 0, IsOpen: false},
	{Weekday: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"},
	{Weekday: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"},
	{Weekday: 3, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"},
	{Weekday: 4, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"},
	{Weekday: 5, IsOpen: true, OpenTime: "09:00", CloseTime: "19:00"},
	{Weekday: 6, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
}

var defaultServices = []models.Service{
	{Name: "Coupe Homme", Description: "Coupe classique ou moderne, shampoing et coiffage inclus.", DurationMin: 30, Price: 35, Active: true},
	{Name: "Barbe & Soins", Description: "Taille de barbe, serviette chaude et soin hydratant.", DurationMin: 20, Price: 25, Active: true},
	{Name: "Formule Complète", Description: "Coupe et barbe avec soin complet du visage.", DurationMin: 50, Price: 55, Active: true},
	{Name: "Coloration", Description: "Coloration ou camouflage des cheveux blancs.", DurationMin: 60, Price: 45, Active: true},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}

	if err := seedHours(db); err != nil {
		zlog.Fatal("seed business hours", zap.Error(err))
	}
	if err := seedServices(db, zlog); err != nil {
		zlog.Fatal("seed services", zap.Error(err))
	}
	if err := seedAdmin(db, zlog); err != nil {
		zlog.Fatal("seed admin", zap.Error(err))
	}

	zlog.Info("seed complete")
}

func seedHours(db *gorm.DB) error {
	hours := append([]models.BusinessHours(nil), defaultHours...)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday"}},
		DoNothing: true,
	}).Create(&hours).Error
}

func seedServices(db *gorm.DB, log *zap.Logger) error {
	for _, svc := range defaultServices {
		svc := svc
		res := db.Where(models.Service{Name: svc.Name}).FirstOrCreate(&svc)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Info("service created", zap.String("name", svc.Name))
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Warn("ADMIN_EMAIL / ADMIN_PASSWORD not set, no staff account created")
		return nil
	}

	if !validators.IsEmailDomainValid(email) {
		log.Warn("admin email domain does not resolve", zap.String("email", email))
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         "Administrateur",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Info("staff account created", zap.String("email", email))
	return nil
}
