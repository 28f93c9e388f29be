// Package ingest loads the MovieLens 100k reference dataset into the movie
// database.
package ingest

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/reeltalk/reeltalk/internal/models"
	"gorm.io/gorm"
)

// Dataset file names inside the extracted ml-100k directory.
const (
	usersFile   = "u.user"
	itemsFile   = "u.item"
	ratingsFile = "u.data"
	genresFile  = "u.genre"
)

// insertBatchSize is the chunk size for bulk inserts.
const insertBatchSize = 500

// releaseDateLayout matches the dataset's release date format, e.g. "01-Jan-1995".
const releaseDateLayout = "02-Jan-2006"

// Counts reports how many rows each table received.
type Counts struct {
	Genres  int
	Users   int
	Movies  int
	Ratings int
}

// Loader ingests MovieLens data files into the database.
type Loader struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewLoader creates a dataset loader.
func NewLoader(db *gorm.DB, logger *slog.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// LoadAll ingests the full dataset from an extracted ml-100k directory.
// Load order matters: genres and users before movies, ratings last.
func (l *Loader) LoadAll(dataPath string) (Counts, error) {
	if _, err := os.Stat(dataPath); err != nil {
		return Counts{}, fmt.Errorf("ingest: dataset path not found: %s", dataPath)
	}

	var counts Counts
	var err error

	if counts.Genres, err = l.loadGenres(filepath.Join(dataPath, genresFile)); err != nil {
		return counts, err
	}
	if counts.Users, err = l.loadUsers(filepath.Join(dataPath, usersFile)); err != nil {
		return counts, err
	}
	if counts.Movies, err = l.loadMovies(filepath.Join(dataPath, itemsFile)); err != nil {
		return counts, err
	}
	if counts.Ratings, err = l.loadRatings(filepath.Join(dataPath, ratingsFile)); err != nil {
		return counts, err
	}

	l.logger.Info("dataset loaded",
		"genres", counts.Genres,
		"users", counts.Users,
		"movies", counts.Movies,
		"ratings", counts.Ratings,
	)
	return counts, nil
}

// loadGenres reads u.genre lines of the form "name|id". Dataset genre ids
// start at 0 ("unknown"); stored ids are shifted to 1-based because the ORM
// drops zero-valued join keys when preloading associations.
func (l *Loader) loadGenres(path string) (int, error) {
	var genres []models.Genre
	err := forEachLine(path, func(line string) error {
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("genre id %q: %w", fields[1], err)
		}
		genres = append(genres, models.Genre{GenreID: id + 1, Name: fields[0]})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: load genres: %w", err)
	}

	if err := l.db.CreateInBatches(genres, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("ingest: insert genres: %w", err)
	}
	return len(genres), nil
}

// loadUsers reads u.user lines of the form "id|age|gender|occupation|zip".
func (l *Loader) loadUsers(path string) (int, error) {
	var users []models.User
	err := forEachLine(path, func(line string) error {
		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			return nil
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("user id %q: %w", fields[0], err)
		}
		age, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("user %d age %q: %w", id, fields[1], err)
		}
		users = append(users, models.User{
			UserID:     id,
			Age:        age,
			Gender:     fields[2],
			Occupation: fields[3],
			ZipCode:    fields[4],
		})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: load users: %w", err)
	}

	if err := l.db.CreateInBatches(users, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("ingest: insert users: %w", err)
	}
	return len(users), nil
}

// loadMovies reads u.item lines: "id|title|release|video_release|imdb_url"
// followed by 19 genre membership flags whose positions are dataset genre
// ids. Flag positions are shifted the same way as loadGenres stores them.
func (l *Loader) loadMovies(path string) (int, error) {
	var movies []models.Movie
	var associations []models.MovieGenre

	err := forEachLine(path, func(line string) error {
		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			return nil
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("movie id %q: %w", fields[0], err)
		}

		movies = append(movies, models.Movie{
			MovieID:          id,
			Title:            fields[1],
			ReleaseDate:      parseReleaseDate(fields[2]),
			VideoReleaseDate: parseReleaseDate(fields[3]),
			IMDBURL:          fields[4],
		})

		for position, flag := range fields[5:] {
			if flag == "1" {
				associations = append(associations, models.MovieGenre{
					MovieID: id,
					GenreID: position + 1,
				})
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: load movies: %w", err)
	}

	if err := l.db.CreateInBatches(movies, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("ingest: insert movies: %w", err)
	}
	if err := l.db.CreateInBatches(associations, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("ingest: insert movie genres: %w", err)
	}
	return len(movies), nil
}

// loadRatings reads u.data lines: tab-separated "user  movie  rating  timestamp".
func (l *Loader) loadRatings(path string) (int, error) {
	var ratings []models.Rating
	err := forEachLine(path, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil
		}
		userID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("rating user id %q: %w", fields[0], err)
		}
		movieID, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("rating movie id %q: %w", fields[1], err)
		}
		value, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("rating value %q: %w", fields[2], err)
		}
		ts, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("rating timestamp %q: %w", fields[3], err)
		}
		ratings = append(ratings, models.Rating{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    value,
			Timestamp: ts,
		})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: load ratings: %w", err)
	}

	if err := l.db.CreateInBatches(ratings, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("ingest: insert ratings: %w", err)
	}
	return len(ratings), nil
}

func parseReleaseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func forEachLine(path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
