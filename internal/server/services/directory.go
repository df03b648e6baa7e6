// Package services contains server-side business logic. DirectoryService
// lists accounts joined with their billing profiles and deletes accounts on
// behalf of administrators.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/dbx"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/dmitrijs2005/saasadmin/internal/server/archive"
	"github.com/dmitrijs2005/saasadmin/internal/server/models"
	"github.com/dmitrijs2005/saasadmin/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	ErrUserIDRequired  = fmt.Errorf("%w: user id required", common.ErrorValidation)
	ErrMalformedUserID = fmt.Errorf("%w: malformed user id", common.ErrorValidation)
)

var timeNow = time.Now

type DirectoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      identity.AuthorizationPolicy
	archive     archive.Archive
	logger      logging.Logger
}

func NewDirectoryService(db *sql.DB, m repomanager.RepositoryManager, policy identity.AuthorizationPolicy,
	a archive.Archive, l logging.Logger) *DirectoryService {
	return &DirectoryService{
		db:          db,
		repomanager: m,
		policy:      policy,
		archive:     a,
		logger:      l.With("module", "directory_service"),
	}
}

// IsAdmin reports whether p may administer the directory.
func (s *DirectoryService) IsAdmin(p *identity.Principal) bool {
	return p != nil && s.policy.IsAdmin(p.Email)
}

// ListUsers returns every account with its subscription flag, plus the
// aggregate stats of the list.
func (s *DirectoryService) ListUsers(ctx context.Context, actor *identity.Principal) ([]directory.Account, directory.Stats, error) {
	if !s.IsAdmin(actor) {
		return nil, directory.Stats{}, common.ErrorUnauthorized
	}

	rows, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, directory.Stats{}, fmt.Errorf("list accounts: %w", err)
	}

	profiles, err := s.repomanager.Profiles(s.db).List(ctx)
	if err != nil {
		return nil, directory.Stats{}, fmt.Errorf("list profiles: %w", err)
	}

	byUser := make(map[string]models.BillingProfile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	accounts := make([]directory.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, toDirectoryAccount(r, byUser[r.ID]))
	}

	return accounts, directory.ComputeStats(accounts), nil
}

func toDirectoryAccount(a models.Account, p models.BillingProfile) directory.Account {
	provider := a.Provider
	if provider == "" {
		provider = directory.DefaultProvider
	}
	return directory.Account{
		ID:           a.ID,
		Email:        a.Email,
		DisplayName:  directory.DisplayName(a.Name, a.Email),
		CreatedAt:    a.CreatedAt,
		LastSignInAt: a.LastSignInAt,
		AuthProvider: provider,
		IsSubscribed: directory.IsSubscribed(p.CustomerID, p.PriceID),
	}
}

// DeleteUser removes userID. The account and its billing profile are
// archived inside the same transaction, so an archive failure keeps the
// account.
func (s *DirectoryService) DeleteUser(ctx context.Context, actor *identity.Principal, userID string) error {
	if !s.IsAdmin(actor) {
		return common.ErrorUnauthorized
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if _, err := uuid.Parse(userID); err != nil {
		return ErrMalformedUserID
	}
	if strings.EqualFold(userID, actor.ID) {
		return common.ErrorSelfDeletion
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)

		acc, err := accounts.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		rec := models.DeletionRecord{
			Account:   *acc,
			DeletedBy: actor.ID,
			DeletedAt: timeNow().UTC(),
		}
		profile, err := s.repomanager.Profiles(tx).GetByUserID(ctx, userID)
		switch {
		case err == nil:
			rec.Profile = profile
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		if err := accounts.Delete(ctx, userID); err != nil {
			return err
		}

		return s.archive.Put(ctx, rec)
	})
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "account deletion failed", "user_id", userID, "error", err)
		}
		return err
	}

	s.logger.Info(ctx, "account deleted", "user_id", userID, "by", actor.ID)
	return nil
}
