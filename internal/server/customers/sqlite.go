package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/indicasta/customerd/internal/common"
)

// SQLiteRepository persists customers in SQLite (modernc.org/sqlite, pure
// Go). Unlike the Postgres backend it updates records as a whole: a single
// statement writes every column, so the last writer wins on all fields
// simultaneously.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) SelectAll(ctx context.Context) ([]Customer, error) {
	query := `SELECT ` + customerColumns + `
		 FROM customers
		 LIMIT 100
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning customer row: %v", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading customer rows: %v", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SelectByID(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + `
		 FROM customers
		 WHERE id = ?
		 `

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return c, nil
}

func (r *SQLiteRepository) SelectByEmail(ctx context.Context, email string) (*Customer, error) {
	query := `SELECT ` + customerColumns + `
		 FROM customers
		 WHERE email = ?
		 `

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return c, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, c *Customer) error {
	query :=
		`INSERT INTO customers (firstname, lastname, email, age, password, role, profile_pic_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 `

	res, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Age, c.PasswordHash, c.Role.String(), picParam(c.ProfilePicID))
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted id: %v", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query :=
		`SELECT count(id)
		 FROM customers
		 WHERE email = ?
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}
	return count > 0, nil
}

func (r *SQLiteRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query :=
		`SELECT count(id)
		 FROM customers
		 WHERE id = ?
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}
	return count > 0, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM customers
		 WHERE id = ?
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Update writes the whole record in one statement (last-write-wins on all
// fields at once).
func (r *SQLiteRepository) Update(ctx context.Context, c *Customer) error {
	query :=
		`UPDATE customers
		 SET firstname = ?, lastname = ?, email = ?, age = ?, password = ?, role = ?, profile_pic_id = ?
		 WHERE id = ?
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Age, c.PasswordHash, c.Role.String(), picParam(c.ProfilePicID), c.ID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateProfilePicID(ctx context.Context, id int64, picID string) error {
	query :=
		`UPDATE customers
		 SET profile_pic_id = ?
		 WHERE id = ?
		 `

	if _, err := r.db.ExecContext(ctx, query, picParam(picID), id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}
