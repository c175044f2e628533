package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
)

func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	db.AutoMigrate(&models.User{})
	db.AutoMigrate(&models.Role{})
	db.AutoMigrate(&models.OrganizationProfile{})
	db.AutoMigrate(&models.ShopifyIntegration{})
	db.AutoMigrate(&models.OrgSetting{})
	db.AutoMigrate(&models.InventoryItem{})
	db.AutoMigrate(&models.StockMovement{})
	db.AutoMigrate(&models.Order{})
	db.AutoMigrate(&models.OrderItem{})
	return nil
}

// SeedRoles ensures the built-in roles exist.
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{RoleName: models.RoleAdmin, AccessLevel: 100},
		{RoleName: models.RoleMember, AccessLevel: 10},
	}
	for _, role := range roles {
		if err := db.Where(models.Role{RoleName: role.RoleName}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
