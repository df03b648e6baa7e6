package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/adminpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	tokens      TokenSource
	conn        *grpc.ClientConn
	client      adminpb.AdminServiceClient
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(adminpb.AccessTokenHeader)
	if token != "" {
		md.Set(adminpb.AccessTokenHeader, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return status.Error(codes.Unauthenticated, err.Error())
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

// NewGRPCClient connects to AdminService at endpointURL. Extra dial options
// are appended after the defaults (plaintext transport, token interceptor).
func NewGRPCClient(endpointURL string, tokens TokenSource, opts ...grpc.DialOption) (*GRPCClient, error) {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &GRPCClient{endpointURL: endpointURL, tokens: tokens}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = adminpb.NewAdminServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) ListUsers(ctx context.Context) (*adminapi.Listing, error) {
	resp, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	l, err := adminpb.StructToListing(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return l, nil
}

func (s *GRPCClient) DeleteUser(ctx context.Context, id string) error {
	_, err := s.client.DeleteUser(ctx, wrapperspb.String(id))
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) CheckAdmin(ctx context.Context) (bool, error) {
	resp, err := s.client.CheckAdmin(ctx, &emptypb.Empty{})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetValue(), nil
}

// mapError converts a gRPC status into an *APIError with the equivalent HTTP
// status, so callers classify both transports the same way.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return newAPIError(http.StatusUnauthorized, st.Message())
	case codes.PermissionDenied:
		return newAPIError(http.StatusForbidden, st.Message())
	case codes.NotFound:
		return newAPIError(http.StatusNotFound, st.Message())
	case codes.InvalidArgument:
		return newAPIError(http.StatusBadRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return newAPIError(http.StatusInternalServerError, st.Message())
	}
}
