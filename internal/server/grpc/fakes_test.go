package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
)

const testSecret = "secret"

type fakeDirectory struct {
	mu        sync.Mutex
	accounts  []directory.Account
	listErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeDirectory) IsAdmin(p *identity.Principal) bool {
	return p != nil && p.Email == "admin@example.com"
}

func (f *fakeDirectory) ListUsers(_ context.Context, actor *identity.Principal) ([]directory.Account, directory.Stats, error) {
	if !f.IsAdmin(actor) {
		return nil, directory.Stats{}, common.ErrorUnauthorized
	}
	if f.listErr != nil {
		return nil, directory.Stats{}, f.listErr
	}
	return f.accounts, directory.ComputeStats(f.accounts), nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, actor *identity.Principal, id string) error {
	if !f.IsAdmin(actor) {
		return common.ErrorUnauthorized
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return nil
}

func newTestServer(dir Directory) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, dir, testSecret)
}
