package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/adminpb"
	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// toStatus mirrors the HTTP status mapping so clients classify both
// transports alike.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "Unauthorized")
	case errors.Is(err, services.ErrUserIDRequired):
		return status.Error(codes.InvalidArgument, "User ID required")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, "Invalid user ID")
	case errors.Is(err, common.ErrorSelfDeletion):
		return status.Error(codes.PermissionDenied, "Cannot delete yourself")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "User not found")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	actor, _ := identity.FromContext(ctx)

	accounts, stats, err := s.dir.ListUsers(ctx, actor)
	if err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Error(ctx, "list users failed", "error", err)
		}
		return nil, toStatus(err)
	}

	out, err := adminpb.ListResponseToStruct(adminapi.NewListResponse(accounts, stats))
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	return out, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	actor, _ := identity.FromContext(ctx)

	if err := s.dir.DeleteUser(ctx, actor, req.GetValue()); err != nil {
		return nil, toStatus(err)
	}

	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CheckAdmin(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	actor, _ := identity.FromContext(ctx)
	return wrapperspb.Bool(s.dir.IsAdmin(actor)), nil
}
