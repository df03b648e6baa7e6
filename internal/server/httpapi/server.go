package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/gorilla/mux"
)

// NewRouter wires the endpoints and middleware.
func NewRouter(dir Directory, secret []byte, l logging.Logger) *mux.Router {
	h := &handlers{dir: dir, logger: l}

	r := mux.NewRouter()
	r.Use(requestID, accessLog(l), authenticate(secret, l))

	r.HandleFunc(adminapi.HealthPath, h.health).Methods(http.MethodGet)
	r.HandleFunc(adminapi.UsersPath, h.listUsers).Methods(http.MethodGet)
	r.HandleFunc(adminapi.UsersPath, h.deleteUser).Methods(http.MethodDelete)
	r.HandleFunc(adminapi.CheckAdminPath, h.checkAdmin).Methods(http.MethodGet)

	return r
}

type HTTPServer struct {
	address         string
	srv             *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(address string, dir Directory, secretKey string, shutdownTimeout time.Duration, l logging.Logger) *HTTPServer {
	l = l.With("module", "http_server")
	return &HTTPServer{
		address: address,
		srv: &http.Server{
			Handler:           NewRouter(dir, []byte(secretKey), l),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:          l,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := s.srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
