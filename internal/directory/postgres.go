// Package directory resolves clients and their portfolio holdings from
// the application database.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/types"
)

// PostgresDirectory reads the users/portfolios/assets schema through a
// pgx connection pool.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresDirectory, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &PostgresDirectory{pool: pool}, nil
}

func (d *PostgresDirectory) Close() {
	d.pool.Close()
}

// ListActiveClients loads every user with their portfolios and holdings.
// A user whose portfolios fail to load is returned without them; the
// listing itself only fails when the users query fails.
func (d *PostgresDirectory) ListActiveClients(ctx context.Context) ([]types.Client, error) {
	timer := logger.StartOperation(ctx, "directory.list_active_clients")

	rows, err := d.pool.Query(ctx,
		`SELECT user_id, first_name, last_name, email FROM users ORDER BY created_at`)
	if err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var clients []types.Client
	for rows.Next() {
		var c types.Client
		var firstName, lastName, email *string
		if err := rows.Scan(&c.UserID, &firstName, &lastName, &email); err != nil {
			timer.EndWithError(err)
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		c.FirstName = deref(firstName)
		c.LastName = deref(lastName)
		c.Email = deref(email)
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	for i := range clients {
		portfolios, err := d.loadPortfolios(ctx, clients[i].UserID)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load portfolios for client", err,
				"client_id", clients[i].UserID)
			continue
		}
		clients[i].Portfolios = portfolios
	}

	timer.End("clients", len(clients))
	return clients, nil
}

// GetClient loads a single user by id, returning types.ErrNotFound when
// no such user exists.
func (d *PostgresDirectory) GetClient(ctx context.Context, userID string) (*types.Client, error) {
	var c types.Client
	var firstName, lastName, email *string

	err := d.pool.QueryRow(ctx,
		`SELECT user_id, first_name, last_name, email FROM users WHERE user_id = $1`,
		userID).Scan(&c.UserID, &firstName, &lastName, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", userID, err)
	}
	c.FirstName = deref(firstName)
	c.LastName = deref(lastName)
	c.Email = deref(email)

	portfolios, err := d.loadPortfolios(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Portfolios = portfolios

	logger.Info(ctx, "Client loaded", "client_id", userID,
		"portfolios", len(c.Portfolios), "holdings", c.HoldingCount())
	return &c, nil
}

func (d *PostgresDirectory) loadPortfolios(ctx context.Context, userID string) ([]types.Portfolio, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT portfolio_id, user_id, portfolio_name, description
		   FROM portfolios WHERE user_id = $1 ORDER BY portfolio_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query portfolios for %s: %w", userID, err)
	}
	defer rows.Close()

	var portfolios []types.Portfolio
	for rows.Next() {
		var p types.Portfolio
		var name, description *string
		if err := rows.Scan(&p.ID, &p.UserID, &name, &description); err != nil {
			return nil, fmt.Errorf("scan portfolio row: %w", err)
		}
		p.Name = deref(name)
		p.Description = deref(description)
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portfolios: %w", err)
	}

	for i := range portfolios {
		holdings, err := d.loadHoldings(ctx, portfolios[i].ID)
		if err != nil {
			return nil, err
		}
		portfolios[i].Holdings = holdings
	}
	return portfolios, nil
}

func (d *PostgresDirectory) loadHoldings(ctx context.Context, portfolioID int64) ([]types.Holding, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT asset_id, portfolio_id, asset_symbol, quantity, acquisition_price, acquisition_date
		   FROM assets WHERE portfolio_id = $1 ORDER BY asset_id`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("query assets for portfolio %d: %w", portfolioID, err)
	}
	defer rows.Close()

	var holdings []types.Holding
	for rows.Next() {
		var h types.Holding
		if err := rows.Scan(&h.AssetID, &h.PortfolioID, &h.Ticker,
			&h.Quantity, &h.AcquisitionPrice, &h.AcquisitionDate); err != nil {
			return nil, fmt.Errorf("scan asset row: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return holdings, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
