package grpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// An empty email passes validation so the account factory can report it.
type createAccountRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type deactivateAccountRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// decode converts a Struct message into dst and validates it.
func (s *GRPCServer) decode(in *structpb.Struct, dst any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return s.validate.Struct(dst)
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r createAccountRequest
	if err := s.decode(req, &r); err != nil {
		return nil, s.requestError(ctx, err)
	}

	account, err := s.accounts.CreateUser(ctx, r.Email, r.Name, r.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "id", account.ID)
	return profile(account)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r loginRequest
	if err := s.decode(req, &r); err != nil {
		return nil, s.requestError(ctx, err)
	}

	tokens, err := s.accounts.Login(ctx, r.Email, r.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokenPair(tokens)
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r refreshTokenRequest
	if err := s.decode(req, &r); err != nil {
		return nil, s.requestError(ctx, err)
	}

	tokens, err := s.accounts.RefreshToken(ctx, r.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokenPair(tokens)
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	return profile(account)
}

// CreateSuperuser is restricted to active superusers.
func (s *GRPCServer) CreateSuperuser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.HasPerm("accounts.add_superuser") {
		return nil, s.toStatus(ctx, common.ErrorPermissionDenied)
	}

	var r createAccountRequest
	if err := s.decode(req, &r); err != nil {
		return nil, s.requestError(ctx, err)
	}

	account, err := s.accounts.CreateSuperuser(ctx, r.Email, r.Name, r.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Superuser created", "id", account.ID, "by", caller.ID)
	return profile(account)
}

// DeactivateAccount is restricted to active staff.
func (s *GRPCServer) DeactivateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessAdmin() {
		return nil, s.toStatus(ctx, common.ErrorPermissionDenied)
	}

	var r deactivateAccountRequest
	if err := s.decode(req, &r); err != nil {
		return nil, s.requestError(ctx, err)
	}

	if err := s.accounts.Deactivate(ctx, r.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Account deactivated", "email", r.Email, "by", caller.ID)
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

// caller loads the account named by the access token. Deactivated accounts
// are treated as unauthenticated.
func (s *GRPCServer) caller(ctx context.Context) (*models.Account, error) {
	id, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !account.CanAuthenticate() {
		return nil, s.toStatus(ctx, common.ErrorUnauthorized)
	}
	return account, nil
}

func (s *GRPCServer) requestError(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	return s.toStatus(ctx, err)
}

// profile renders an account without its password hash.
func profile(a *models.Account) (*structpb.Struct, error) {
	var lastLogin any
	if a.LastLogin != nil {
		lastLogin = a.LastLogin.UTC().Format(time.RFC3339)
	}

	return structpb.NewStruct(map[string]any{
		"id":           a.ID,
		"email":        a.Email,
		"name":         a.Name,
		"is_active":    a.IsActive,
		"is_staff":     a.IsStaff,
		"is_superuser": a.IsSuperuser,
		"last_login":   lastLogin,
		"created_at":   a.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func tokenPair(p *services.TokenPair) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"access_token":  p.AccessToken,
		"refresh_token": p.RefreshToken,
	})
}
