package models

import "time"

// Rating represents one user's rating of one movie, on a 1-5 scale. The
// Timestamp column is the original dataset's unix timestamp; RatedAt is the
// ingestion time.
type Rating struct {
	RatingID  int   `gorm:"primaryKey;autoIncrement;column:rating_id"`
	UserID    int   `gorm:"not null;index;column:user_id"`
	MovieID   int   `gorm:"not null;index;column:movie_id"`
	Rating    int   `gorm:"not null"`
	Timestamp int64 `gorm:"not null"`
	RatedAt   time.Time

	User  User  `gorm:"foreignKey:UserID"`
	Movie Movie `gorm:"foreignKey:MovieID"`
}

// TableName overrides the default pluralization.
func (Rating) TableName() string { return "ratings" }
