package models

// Genre represents a movie genre.
type Genre struct {
	GenreID int    `gorm:"primaryKey;autoIncrement:false;column:genre_id"`
	Name    string `gorm:"size:50;uniqueIndex;not null"`

	Movies []Movie `gorm:"many2many:movie_genre;foreignKey:GenreID;joinForeignKey:GenreID;References:MovieID;joinReferences:MovieID"`
}

// TableName overrides the default pluralization.
func (Genre) TableName() string { return "genres" }
