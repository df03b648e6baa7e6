package profiles

import (
	"context"

	"github.com/dmitrijs2005/saasadmin/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.BillingProfile, error)
	GetByUserID(ctx context.Context, userID string) (*models.BillingProfile, error)
}
