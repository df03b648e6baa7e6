package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/saasadmin/internal/adminpb"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"
	"google.golang.org/grpc"
)

// Directory is the business logic behind AdminService.
type Directory interface {
	IsAdmin(p *identity.Principal) bool
	ListUsers(ctx context.Context, actor *identity.Principal) ([]directory.Account, directory.Stats, error)
	DeleteUser(ctx context.Context, actor *identity.Principal, userID string) error
}

var _ Directory = (*services.DirectoryService)(nil)

type GRPCServer struct {
	adminpb.UnimplementedAdminServiceServer
	address   string
	dir       Directory
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, dir Directory, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		dir:       dir,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	adminpb.RegisterAdminServiceServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	<-stopped
	return nil
}
