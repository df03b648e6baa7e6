package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL+"/", StaticToken("tok"), srv.Client())
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RejectsBadAddress(t *testing.T) {
	_, err := NewHTTPClient("127.0.0.1:8080", nil, nil)
	require.Error(t, err)
	_, err = NewHTTPClient("://", nil, nil)
	require.Error(t, err)
}

func TestHTTPClient_ListUsers(t *testing.T) {
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, adminapi.UsersPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"users":[{"id":"u1","email":"a@example.com","createdAt":"2024-01-01T00:00:00Z","isSubscribed":true}],
			"stats":{"total":1,"subscribed":1,"nonSubscribed":0,"conversionRate":100}}`)
	})

	l, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, l.Accounts, 1)
	assert.Equal(t, "u1", l.Accounts[0].ID)
	require.NotNil(t, l.Stats)
	assert.Equal(t, 100.0, l.Stats.ConversionRate)
}

func TestHTTPClient_ListUsers_Malformed(t *testing.T) {
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})

	_, err := c.ListUsers(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.ErrorIs(t, err, adminapi.ErrMalformed)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":"nope"}`)
			})

			err := c.DeleteUser(context.Background(), "u1")
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestHTTPClient_DeleteUser(t *testing.T) {
	var got adminapi.DeleteRequest
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, c.DeleteUser(context.Background(), "u1"))
	assert.Equal(t, "u1", got.UserID)
}

func TestHTTPClient_DeleteUser_NotConfirmed(t *testing.T) {
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	})
	require.ErrorIs(t, c.DeleteUser(context.Background(), "u1"), ErrMalformedResponse)
}

func TestHTTPClient_CheckAdmin(t *testing.T) {
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, adminapi.CheckAdminPath, r.URL.Path)
		_, _ = io.WriteString(w, `{"isAdmin":true}`)
	})

	ok, err := c.CheckAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPClient_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"isAdmin":false}`)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	ok, err := c.CheckAdmin(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	c := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ListUsers(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
