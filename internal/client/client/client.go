package client

import (
	"context"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
)

// Client talks to the admin directory endpoints of the server.
type Client interface {
	Close() error
	ListUsers(ctx context.Context) (*adminapi.Listing, error)
	DeleteUser(ctx context.Context, id string) error
	CheckAdmin(ctx context.Context) (bool, error)
}

// TokenSource yields the bearer token attached to every request. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a fixed token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
