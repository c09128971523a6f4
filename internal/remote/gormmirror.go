package remote

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maritime-watch/internal/models"
)

type gormMirror struct {
	db *gorm.DB
}

func openGorm(cfg Config) (Mirror, error) {
	if cfg.Mysql.User == "" || cfg.Mysql.Host == "" || cfg.Mysql.Database == "" {
		return nil, fmt.Errorf("missing connection info")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Mysql.User, cfg.Mysql.Password, cfg.Mysql.Host, cfg.Mysql.Database)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		db.Logger = db.Logger.LogMode(logger.Info)
	}

	err = db.AutoMigrate(&models.ProfileDoc{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate profile collection: %w", err)
	}

	err = db.AutoMigrate(&models.VesselStateDoc{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate vessel state collection: %w", err)
	}

	return &gormMirror{db: db}, nil
}

func (m *gormMirror) PutProfile(ctx context.Context, doc models.ProfileDoc) error {
	return m.db.WithContext(ctx).Save(&doc).Error
}

func (m *gormMirror) PutVesselState(ctx context.Context, doc models.VesselStateDoc) error {
	return m.db.WithContext(ctx).Save(&doc).Error
}

func (m *gormMirror) Close() error {
	sqlDb, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
