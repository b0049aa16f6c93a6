package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Project{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Source{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Draft{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Revision{}); err != nil {
		return err
	}

	return nil
}
