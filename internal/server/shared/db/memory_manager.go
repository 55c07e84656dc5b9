package db

import (
	"context"
	"database/sql"

	"github.com/indicasta/customerd/internal/server/customers"
)

type MemoryRepositoryManager struct {
	customers customers.Repository
}

func (m *MemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Customers() customers.Repository {
	return m.customers
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{customers: customers.NewMemoryRepository()}
}
