package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/adminpb"
	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/server/auth"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// startBufServer runs the real server (with its interceptor) over bufconn.
func startBufServer(t *testing.T, dir Directory) adminpb.AdminServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := newTestServer(dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return adminpb.NewAdminServiceClient(conn)
}

func withToken(t *testing.T, id, email string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(id, email, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), adminpb.AccessTokenHeader, tok)
}

func TestListUsers_RoundTrip(t *testing.T) {
	created := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	dir := &fakeDirectory{accounts: []directory.Account{
		{ID: "u1", Email: "a@example.com", DisplayName: "a", CreatedAt: created, AuthProvider: "email", IsSubscribed: true},
		{ID: "u2", Email: "b@example.com", DisplayName: "b", AuthProvider: "github"},
	}}
	c := startBufServer(t, dir)

	out, err := c.ListUsers(withToken(t, "admin", "admin@example.com"), &emptypb.Empty{})
	require.NoError(t, err)

	l, err := adminpb.StructToListing(out)
	require.NoError(t, err)
	require.Len(t, l.Accounts, 2)
	assert.Equal(t, "u1", l.Accounts[0].ID)
	assert.True(t, l.Accounts[0].CreatedAt.Equal(created))
	assert.Equal(t, "github", l.Accounts[1].AuthProvider)
	require.NotNil(t, l.Stats)
	assert.Equal(t, directory.NewStats(2, 1), *l.Stats)
}

func TestListUsers_Codes(t *testing.T) {
	c := startBufServer(t, &fakeDirectory{listErr: errors.New("db error: boom")})

	_, err := c.ListUsers(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.ListUsers(withToken(t, "u2", "bob@example.com"), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.ListUsers(withToken(t, "admin", "admin@example.com"), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "db error: boom", status.Convert(err).Message())
}

func TestDeleteUser_RoundTrip(t *testing.T) {
	dir := &fakeDirectory{}
	c := startBufServer(t, dir)

	_, err := c.DeleteUser(withToken(t, "admin", "admin@example.com"), wrapperspb.String("u2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, dir.deleted)
}

func TestDeleteUser_Codes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{services.ErrUserIDRequired, codes.InvalidArgument, "User ID required"},
		{services.ErrMalformedUserID, codes.InvalidArgument, "Invalid user ID"},
		{common.ErrorSelfDeletion, codes.PermissionDenied, "Cannot delete yourself"},
		{common.ErrorNotFound, codes.NotFound, "User not found"},
		{errors.New("archive put: denied"), codes.Internal, "archive put: denied"},
	}
	for _, tc := range cases {
		c := startBufServer(t, &fakeDirectory{deleteErr: tc.err})
		_, err := c.DeleteUser(withToken(t, "admin", "admin@example.com"), wrapperspb.String("u2"))
		st := status.Convert(err)
		assert.Equal(t, tc.code, st.Code(), tc.msg)
		assert.Equal(t, tc.msg, st.Message())
	}
}

func TestCheckAdmin(t *testing.T) {
	c := startBufServer(t, &fakeDirectory{})

	got, err := c.CheckAdmin(withToken(t, "admin", "admin@example.com"), &emptypb.Empty{})
	require.NoError(t, err)
	assert.True(t, got.GetValue())

	got, err = c.CheckAdmin(withToken(t, "u2", "bob@example.com"), &emptypb.Empty{})
	require.NoError(t, err)
	assert.False(t, got.GetValue())

	got, err = c.CheckAdmin(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.False(t, got.GetValue())
}
