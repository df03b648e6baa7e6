package adminapi

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListResponse_FullDocument(t *testing.T) {
	body := `{
		"users": [
			{"id":"u1","email":"alice@example.com","name":"Alice","createdAt":"2024-03-01T10:00:00.123Z",
			 "lastSignIn":"2024-03-02T08:00:00Z","provider":"google","isSubscribed":true},
			{"id":"u2","email":"bob@example.com","createdAt":"2024-02-01T10:00:00Z","lastSignIn":null}
		],
		"stats": {"total":2,"subscribed":1,"nonSubscribed":1,"conversionRate":50}
	}`

	l, err := DecodeListResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, l.Accounts, 2)
	assert.Zero(t, l.Dropped)

	alice := l.Accounts[0]
	assert.Equal(t, "u1", alice.ID)
	assert.Equal(t, "Alice", alice.DisplayName)
	assert.Equal(t, "google", alice.AuthProvider)
	assert.True(t, alice.IsSubscribed)
	assert.True(t, alice.CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 123e6, time.UTC)))
	require.NotNil(t, alice.LastSignInAt)
	assert.True(t, alice.LastSignInAt.Equal(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)))

	bob := l.Accounts[1]
	assert.Equal(t, "bob", bob.DisplayName)
	assert.Equal(t, directory.DefaultProvider, bob.AuthProvider)
	assert.Nil(t, bob.LastSignInAt)
	assert.False(t, bob.IsSubscribed)

	require.NotNil(t, l.Stats)
	assert.Equal(t, directory.NewStats(2, 1), *l.Stats)
}

func TestDecodeListResponse_TolerantRecords(t *testing.T) {
	body := `{"users":[
		{"id":"ok","email":"ok@example.com","createdAt":"yesterday","isSubscribed":"yes"},
		{"email":"noid@example.com"},
		{"id":"noemail"},
		{"id":42,"email":"numeric-id@example.com"},
		"not an object",
		null,
		{"id":"alias","email":"alias@example.com","lastSignInAt":"2024-01-01T00:00:00Z"}
	]}`

	l, err := DecodeListResponse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 5, l.Dropped)
	require.Len(t, l.Accounts, 2)

	assert.Equal(t, "ok", l.Accounts[0].ID)
	assert.True(t, l.Accounts[0].CreatedAt.IsZero())
	assert.False(t, l.Accounts[0].IsSubscribed)

	assert.Equal(t, "alias", l.Accounts[1].ID)
	assert.NotNil(t, l.Accounts[1].LastSignInAt)
	assert.Nil(t, l.Stats)
}

func TestDecodeListResponse_MalformedEnvelope(t *testing.T) {
	for _, body := range []string{
		``,
		`not json`,
		`[]`,
		`{"users":null}`,
		`{"users":{"id":"u1"}}`,
		`{"error":"Unauthorized"}`,
	} {
		_, err := DecodeListResponse([]byte(body))
		assert.True(t, errors.Is(err, ErrMalformed), "body %q: got %v", body, err)
	}
}

func TestDecodeListResponse_EmptyList(t *testing.T) {
	l, err := DecodeListResponse([]byte(`{"users":[]}`))
	require.NoError(t, err)
	assert.Empty(t, l.Accounts)
	assert.NotNil(t, l.Accounts)
}

func TestDecodeStats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *directory.Stats
	}{
		{
			name: "string conversion rate",
			in:   `{"total":4,"subscribed":1,"nonSubscribed":3,"conversionRate":"25.0"}`,
			want: &directory.Stats{Total: 4, Subscribed: 1, NonSubscribed: 3, ConversionRate: 25},
		},
		{
			name: "derived fields",
			in:   `{"total":4,"subscribed":1}`,
			want: &directory.Stats{Total: 4, Subscribed: 1, NonSubscribed: 3, ConversionRate: 25},
		},
		{name: "negative total", in: `{"total":-1,"subscribed":0}`},
		{name: "fractional count", in: `{"total":1.5,"subscribed":0}`},
		{name: "missing subscribed", in: `{"total":3}`},
		{name: "garbage", in: `{"total":"many","subscribed":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.Equal(t, tt.want, decodeStats(m))
		})
	}
}

func TestDecodeError(t *testing.T) {
	assert.Equal(t, "Cannot delete yourself", DecodeError([]byte(`{"error":" Cannot delete yourself "}`)))
	assert.Equal(t, "", DecodeError([]byte(`{"success":true}`)))
	assert.Equal(t, "", DecodeError([]byte(`<html>`)))
}

func TestNewListResponse_DecodesBack(t *testing.T) {
	last := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	accounts := []directory.Account{
		{ID: "u1", Email: "a@example.com", DisplayName: "A", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			LastSignInAt: &last, AuthProvider: "google", IsSubscribed: true},
		{ID: "u2", Email: "b@example.com", DisplayName: "b", AuthProvider: "email"},
	}
	resp := NewListResponse(accounts, directory.ComputeStats(accounts))
	assert.Equal(t, "", resp.Users[1].CreatedAt)
	assert.Nil(t, resp.Users[1].LastSignIn)

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	l, err := DecodeListResponse(b)
	require.NoError(t, err)
	require.Len(t, l.Accounts, 2)
	assert.True(t, l.Accounts[0].CreatedAt.Equal(accounts[0].CreatedAt))
	assert.True(t, l.Accounts[0].LastSignInAt.Equal(last))
	assert.Equal(t, directory.NewStats(2, 1), *l.Stats)
}
