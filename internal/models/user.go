// Package models defines the GORM models for the MovieLens reference dataset.
package models

import "time"

// User represents a MovieLens user.
type User struct {
	UserID     int    `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	Age        int    `gorm:"not null"`
	Gender     string `gorm:"size:1;not null"`
	Occupation string `gorm:"size:100"`
	ZipCode    string `gorm:"size:10;column:zip_code"`
	CreatedAt  time.Time

	Ratings []Rating `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default pluralization.
func (User) TableName() string { return "users" }
