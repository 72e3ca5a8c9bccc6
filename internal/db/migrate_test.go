package db

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/rs/zerolog"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	var versions []uint
	v, err := src.First()
	for err == nil {
		versions = append(versions, v)
		for _, read := range []func(uint) (io.ReadCloser, string, error){src.ReadUp, src.ReadDown} {
			r, _, rerr := read(v)
			if rerr != nil {
				t.Fatalf("version %d: %v", v, rerr)
			}
			_ = r.Close()
		}
		v, err = src.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("walk migrations: %v", err)
	}
	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Fatalf("unexpected migration versions %v", versions)
	}

	r, _, err := src.ReadUp(2)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if !strings.Contains(string(body), "idx_applications_live") {
		t.Fatalf("live application index missing from migration 2:\n%s", body)
	}
}

func TestMigrate_OneLiveApplicationPerJob(t *testing.T) {
	d, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer Close(d)
	if err := Run(d, config.DatabaseConfig{Driver: "sqlite", SQLMigrations: true}); err != nil {
		t.Fatal(err)
	}
	// Running twice must be harmless.
	if err := Migrate(d); err != nil {
		t.Fatal(err)
	}

	user := &models.User{Email: "ada@example.com", Password: "x", FirstName: "Ada", LastName: "L", Role: models.RoleCandidate, IsActive: true}
	if err := d.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	job := &models.Job{CreatedBy: user.ID, Title: "Engineer", CompanyName: "Acme", Status: models.JobStatusActive}
	if err := d.Create(job).Error; err != nil {
		t.Fatal(err)
	}
	apply := func(status models.ApplicationStatus) error {
		return d.Create(&models.Application{UserID: user.ID, JobID: job.ID, Status: status, AppliedAt: time.Now()}).Error
	}

	if err := apply(models.StatusWithdrawn); err != nil {
		t.Fatal(err)
	}
	if err := apply(models.StatusApplied); err != nil {
		t.Fatalf("withdrawn rows must not block a new application: %v", err)
	}
	if err := apply(models.StatusRecommended); err == nil {
		t.Fatal("expected a second live application to be rejected")
	}
}
