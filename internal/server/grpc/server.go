// Package grpc exposes the account service over gRPC. Messages are
// google.protobuf.Struct values; handlers decode them into typed requests
// and validate those before calling the service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/services"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
)

// AccountService is the business API the handlers need.
type AccountService interface {
	CreateUser(ctx context.Context, email, name, password string) (*models.Account, error)
	CreateSuperuser(ctx context.Context, email, name, password string) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Deactivate(ctx context.Context, email string) error
}

type GRPCServer struct {
	address   string
	accounts  AccountService
	logger    logging.Logger
	jwtSecret []byte
	validate  *validator.Validate
}

var _ AccountServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, as AccountService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		accounts:  as,
		jwtSecret: []byte(secretKey),
		validate:  validator.New(),
	}
}

// NewServer returns a grpc.Server with the access token interceptor installed
// and the account service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.accessTokenInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&AccountServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
