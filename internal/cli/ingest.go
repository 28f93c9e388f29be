package cli

import (
	"fmt"
	"path/filepath"

	"github.com/reeltalk/reeltalk/internal/config"
	"github.com/reeltalk/reeltalk/internal/db"
	"github.com/reeltalk/reeltalk/internal/ingest"
	"github.com/spf13/cobra"
)

var ingestPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download and load the MovieLens 100k dataset",
	Long: `Ingest loads the MovieLens 100k dataset into the movie database.

Without --path the dataset zip is downloaded and extracted to a temp
directory first. With --path an already-extracted ml-100k directory is
loaded directly.

Examples:
  reeltalk ingest
  reeltalk ingest --path ./ml-100k`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPath, "path", "", "extracted ml-100k directory (skips download)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	dataPath := ingestPath
	if dataPath == "" {
		logger.Info("downloading dataset", "url", cfg.DatasetURL)
		tempDir, err := ingest.DownloadAndExtract(cfg.DatasetURL)
		if err != nil {
			return err
		}
		defer ingest.RemoveTempDir(tempDir)
		dataPath = filepath.Join(tempDir, "ml-100k")
	}

	gdb, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	counts, err := ingest.NewLoader(gdb, logger).LoadAll(dataPath)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d genres, %d users, %d movies, %d ratings into %s\n",
		counts.Genres, counts.Users, counts.Movies, counts.Ratings, cfg.DatabasePath)
	return nil
}
