// Command import loads historical measurements from a CSV export directly
// into the database, acting as the target user. Bad rows are reported and
// skipped.
//
// Usage:
//
//	import -file export.csv -username alice
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/authz"
	"github.com/mtakagi/body-tracker-api/internal/config"
	"github.com/mtakagi/body-tracker-api/internal/database"
	"github.com/mtakagi/body-tracker-api/internal/importer"
	"github.com/mtakagi/body-tracker-api/internal/repository"
	"github.com/mtakagi/body-tracker-api/internal/services"
)

func main() {
	file := flag.String("file", "", "path to the CSV file")
	username := flag.String("username", "", "user the measurements belong to")
	flag.Parse()

	if *file == "" || *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	measurementService := services.NewMeasurementService(measurementRepo, userRepo)
	importService := importer.NewService(measurementService)

	user, err := userRepo.FindByUsername(*username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Fatalf("User %q not found", *username)
		}
		logrus.Fatalf("Failed to look up user: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		logrus.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	// The CLI acts as the owner; rows go through the same validation path as
	// interactive entries.
	identity := authz.Identity{UserID: user.ID, Username: user.Username}

	summary, err := importService.Import(identity, user.ID, f)
	if err != nil {
		logrus.Fatalf("Import failed: %v", err)
	}

	for _, rowErr := range summary.Errors {
		logrus.Warnf("row %d: %s", rowErr.Line, rowErr.Err)
	}
	logrus.Infof("Import complete: %d imported, %d failed", summary.Imported, summary.Failed)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
