package grpc

import (
	"context"

	"github.com/dmitrijs2005/saasadmin/internal/adminpb"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// anonymousMethods answer without a session.
var anonymousMethods = map[string]bool{
	adminpb.CheckAdminMethod: true,
}

// accessTokenInterceptor resolves the access_token metadata into a principal.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(adminpb.AccessTokenHeader)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}

	if len(accessToken) == 0 {
		if anonymousMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if anonymousMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		s.logger.Debug(ctx, "rejected token", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(identity.WithPrincipal(ctx, p), req)
}
