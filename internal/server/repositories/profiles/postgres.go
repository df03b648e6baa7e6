package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/dbx"
	"github.com/dmitrijs2005/saasadmin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.BillingProfile, error) {
	query :=
		`SELECT id::text, customer_id, price_id
		 FROM profiles`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.BillingProfile, 0)
	for rows.Next() {
		var (
			p                   models.BillingProfile
			customerID, priceID sql.NullString
		)
		if err := rows.Scan(&p.UserID, &customerID, &priceID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.CustomerID, p.PriceID = customerID.String, priceID.String
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.BillingProfile, error) {
	query :=
		`SELECT id::text, customer_id, price_id
		 FROM profiles
		 WHERE id = $1`

	var (
		p                   models.BillingProfile
		customerID, priceID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &customerID, &priceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.CustomerID, p.PriceID = customerID.String, priceID.String

	return &p, nil
}
