// Package db wires up the interchangeable customer store backends. The
// backend is chosen once at composition time; everything downstream only
// sees the customers.Repository contract.
package db

import (
	"context"
	"database/sql"

	"github.com/indicasta/customerd/internal/server/customers"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Customers() customers.Repository
	Close() error
}
