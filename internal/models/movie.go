package models

import "time"

// Movie represents a movie in the dataset.
type Movie struct {
	MovieID          int    `gorm:"primaryKey;autoIncrement:false;column:movie_id"`
	Title            string `gorm:"size:255;not null;index"`
	ReleaseDate      *time.Time
	VideoReleaseDate *time.Time
	IMDBURL          string `gorm:"size:255;column:imdb_url"`
	CreatedAt        time.Time

	Ratings []Rating `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Genres  []Genre  `gorm:"many2many:movie_genre;foreignKey:MovieID;joinForeignKey:MovieID;References:GenreID;joinReferences:GenreID"`
}

// TableName overrides the default pluralization.
func (Movie) TableName() string { return "movies" }

// MovieGenre is the movie-genre association table.
type MovieGenre struct {
	MovieID int `gorm:"primaryKey;column:movie_id"`
	GenreID int `gorm:"primaryKey;column:genre_id"`
}

// TableName matches the join table used by Movie.Genres.
func (MovieGenre) TableName() string { return "movie_genre" }
