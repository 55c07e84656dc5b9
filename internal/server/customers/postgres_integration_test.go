package customers

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Runs the behavioral contract against a real PostgreSQL instance,
// including the per-field update semantics sqlmock can only approximate.
// Requires Docker; skipped in short mode.
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping containerized test in short mode")
	}

	ctx := context.Background()

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("customerd"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = pgC.Terminate(ctx)
	})

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("set dialect: %v", err)
	}
	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	return db
}

func TestPostgresRepository_Integration(t *testing.T) {
	db := startPostgres(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	c := insertTestCustomer(t, repo, "indi@x.com")

	t.Run("lookup round trip", func(t *testing.T) {
		got, err := repo.SelectByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("SelectByID: %v", err)
		}
		if *got != *c {
			t.Fatalf("mismatch: got %+v want %+v", got, c)
		}

		ok, err := repo.ExistsByEmail(ctx, "indi@x.com")
		if err != nil || !ok {
			t.Fatalf("ExistsByEmail: (%v, %v)", ok, err)
		}
	})

	t.Run("per-field update skips blanks", func(t *testing.T) {
		// Only lastname is populated; firstname stays untouched even
		// though the patch record carries a blank for it.
		patch := &Customer{ID: c.ID, LastName: "Kudimenko"}
		if err := repo.Update(ctx, patch); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := repo.SelectByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("SelectByID: %v", err)
		}
		if got.FirstName != "Indira" || got.LastName != "Kudimenko" {
			t.Fatalf("unexpected record after partial update: %+v", got)
		}
	})

	t.Run("email change frees old address", func(t *testing.T) {
		patch := &Customer{ID: c.ID, Email: "new@x.com"}
		if err := repo.Update(ctx, patch); err != nil {
			t.Fatalf("Update: %v", err)
		}

		if _, err := repo.SelectByEmail(ctx, "indi@x.com"); !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("old email still present: %v", err)
		}
		if _, err := repo.SelectByEmail(ctx, "new@x.com"); err != nil {
			t.Fatalf("new email missing: %v", err)
		}
	})

	t.Run("profile pic id", func(t *testing.T) {
		if err := repo.UpdateProfilePicID(ctx, c.ID, "pic-1"); err != nil {
			t.Fatalf("UpdateProfilePicID: %v", err)
		}
		got, err := repo.SelectByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("SelectByID: %v", err)
		}
		if got.ProfilePicID != "pic-1" {
			t.Fatalf("pic id not recorded: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteByID(ctx, c.ID); err != nil {
			t.Fatalf("DeleteByID: %v", err)
		}
		ok, err := repo.ExistsByID(ctx, c.ID)
		if err != nil || ok {
			t.Fatalf("customer survived delete: (%v, %v)", ok, err)
		}
		// absent id delete stays a no-op
		if err := repo.DeleteByID(ctx, c.ID); err != nil {
			t.Fatalf("second delete: %v", err)
		}
	})
}
