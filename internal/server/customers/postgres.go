package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/indicasta/customerd/internal/common"
)

// PostgresRepository persists customers in PostgreSQL through database/sql
// with the pgx stdlib driver.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const customerColumns = "id, firstname, lastname, email, age, password, role, profile_pic_id"

func scanCustomer(row interface{ Scan(...any) error }) (*Customer, error) {
	var (
		c    Customer
		role string
		pic  sql.NullString
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Age, &c.PasswordHash, &role, &pic)
	if err != nil {
		return nil, err
	}
	c.Role, err = ParseRole(role)
	if err != nil {
		return nil, err
	}
	c.ProfilePicID = pic.String
	return &c, nil
}

func picParam(picID string) sql.NullString {
	return sql.NullString{String: picID, Valid: picID != ""}
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]Customer, error) {
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

func (r *PostgresRepository) SelectByID(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + `
		 FROM customers
		 WHERE id = $1
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

func (r *PostgresRepository) SelectByEmail(ctx context.Context, email string) (*Customer, error) {
	query := `SELECT ` + customerColumns + `
		 FROM customers
		 WHERE email = $1
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

func (r *PostgresRepository) Insert(ctx context.Context, c *Customer) error {
	query :=
		`INSERT INTO customers (firstname, lastname, email, age, password, role, profile_pic_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Age, c.PasswordHash, c.Role.String(), picParam(c.ProfilePicID)).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query :=
		`SELECT count(id)
		 FROM customers
		 WHERE email = $1
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query :=
		`SELECT count(id)
		 FROM customers
		 WHERE id = $1
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM customers
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Update issues one statement per populated field, each independently
// conditioned: blank strings are skipped and ages outside [18,75] are
// skipped. No transaction spans the statements, so a failure mid-way can
// leave a partial write. That is an accepted trait of this backend, not a
// bug to paper over here.
func (r *PostgresRepository) Update(ctx context.Context, c *Customer) error {
	if c.FirstName != "" {
		query :=
			`UPDATE customers
			 SET firstname = $1
			 WHERE id = $2
			 `
		if _, err := r.db.ExecContext(ctx, query, c.FirstName, c.ID); err != nil {
			return fmt.Errorf("error updating firstname: %v", err)
		}
	}
	if c.LastName != "" {
		query :=
			`UPDATE customers
			 SET lastname = $1
			 WHERE id = $2
			 `
		if _, err := r.db.ExecContext(ctx, query, c.LastName, c.ID); err != nil {
			return fmt.Errorf("error updating lastname: %v", err)
		}
	}
	if c.Email != "" {
		query :=
			`UPDATE customers
			 SET email = $1
			 WHERE id = $2
			 `
		if _, err := r.db.ExecContext(ctx, query, c.Email, c.ID); err != nil {
			return fmt.Errorf("error updating email: %v", err)
		}
	}
	if c.Age >= 18 && c.Age <= 75 {
		query :=
			`UPDATE customers
			 SET age = $1
			 WHERE id = $2
			 `
		if _, err := r.db.ExecContext(ctx, query, c.Age, c.ID); err != nil {
			return fmt.Errorf("error updating age: %v", err)
		}
	}
	return nil
}

func (r *PostgresRepository) UpdateProfilePicID(ctx context.Context, id int64, picID string) error {
	query :=
		`UPDATE customers
		 SET profile_pic_id = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, picParam(picID), id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}
