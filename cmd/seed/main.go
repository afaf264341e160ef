package main

import (
	"github.com/boutique-next/internal/config"
	"github.com/boutique-next/internal/logger"
	"github.com/boutique-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 示例商品
	products := []models.Product{
		{
			Name:        "Widget",
			Description: "A sturdy general purpose widget.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			Stock:       100,
			IsActive:    true,
		},
		{
			Name:        "Deluxe Widget",
			Description: "The widget, now with a brushed aluminium finish.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			Stock:       40,
			IsActive:    true,
		},
		{
			Name:        "Widget Carry Case",
			Description: "Fits up to six widgets.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(14.00)),
			Stock:       25,
			IsActive:    true,
		},
		{
			Name:        "Legacy Widget",
			Description: "Retired model, kept for warranty claims.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(4.90)),
			Stock:       0,
			IsActive:    false,
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			inactive := !p.IsActive
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Name, err)
				continue
			}
			// IsActive 带列默认值，下架商品需在创建后显式写回
			if inactive {
				p.IsActive = false
				if err := models.DB.Save(&p).Error; err != nil {
					stdLog.Printf("Failed to deactivate product %s: %v", p.Name, err)
				}
			}
			stdLog.Printf("Created product: %s", p.Name)
		} else {
			stdLog.Printf("Product already exists: %s", p.Name)
		}
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Println("Seed completed")
}
