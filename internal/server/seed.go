package server

import (
	"context"
	"errors"

	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/server/customers"
)

// demoAccounts are inserted on startup when seeding is enabled, so a fresh
// deployment has something to log in with.
var demoAccounts = []customers.Registration{
	{FirstName: "Alex", LastName: "Morgan", Email: "alex.morgan@example.com", Password: "password", Age: 34},
	{FirstName: "Jamie", LastName: "Lee", Email: "jamie.lee@example.com", Password: "password", Age: 27},
}

func (app *App) seedDemoData(ctx context.Context) {
	for _, reg := range demoAccounts {
		err := app.directory.Create(ctx, reg)
		switch {
		case err == nil:
			app.logger.Info(ctx, "seeded demo customer", "email", reg.Email)
		case errors.Is(err, common.ErrDuplicateEmail):
			// left over from a previous run
		default:
			app.logger.Error(ctx, "seed error", "email", reg.Email, "error", err.Error())
		}
	}
}
