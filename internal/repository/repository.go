package repository

import (
	"context"
	"database/sql"
	"fmt"

	"reno_market/internal/migrations"

	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
)

type Repository struct {
	db      *pgxpool.Pool
	User    UserRepository
	Project ProjectRepository
	Inquiry InquiryRepository
	Media   MediaRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:      db,
		User:    NewUserRepository(db),
		Project: NewProjectRepository(db),
		Inquiry: NewInquiryRepository(db),
		Media:   NewMediaRepository(db),
	}, nil
}

// RunMigrations applies the embedded goose migrations. goose works over
// database/sql, so a short-lived stdlib connection is opened next to
// the pool.
func RunMigrations(ctx context.Context, dsn string) error {
	const op = "repository.RunMigrations"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) Close() {
	r.db.Close()
}
