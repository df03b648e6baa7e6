package accounts

import (
	"context"

	"github.com/dmitrijs2005/saasadmin/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
