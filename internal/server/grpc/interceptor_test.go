package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", logging.Nop{}, newFakeAccounts(), secret)
}

func TestInterceptor_PublicMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: FullMethod(MethodLogin)}
	handlerCalled := false

	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		_, ok := accountIDFromContext(ctx)
		assert.False(t, ok)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_ProtectedMethods(t *testing.T) {
	s := newTestServer("secret")

	valid, err := auth.GenerateToken("acc-1", []byte("secret"), time.Minute)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("acc-1", []byte("secret"), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("acc-1", []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "missing", token: "", wantErr: "missing token"},
		{name: "garbage", token: "not-a-valid-jwt", wantErr: common.ErrInvalidToken.Error()},
		{name: "expired", token: expired, wantErr: common.ErrTokenExpired.Error()},
		{name: "wrong secret", token: foreign, wantErr: common.ErrInvalidToken.Error()},
		{name: "valid", token: valid},
	}

	for _, method := range []string{MethodGetProfile, MethodCreateSuperuser, MethodDeactivateAccount} {
		for _, tt := range tests {
			t.Run(method+"/"+tt.name, func(t *testing.T) {
				ctx := context.Background()
				if tt.token != "" {
					ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.AccessTokenHeaderName, tt.token))
				}
				info := &grpc.UnaryServerInfo{FullMethod: FullMethod(method)}

				var gotID string
				h := func(ctx context.Context, req any) (any, error) {
					gotID, _ = accountIDFromContext(ctx)
					return "ok", nil
				}

				_, err := s.accessTokenInterceptor(ctx, nil, info, h)
				if tt.wantErr == "" {
					require.NoError(t, err)
					assert.Equal(t, "acc-1", gotID)
					return
				}
				require.Error(t, err)
				assert.Equal(t, codes.Unauthenticated, status.Code(err))
				assert.Equal(t, tt.wantErr, status.Convert(err).Message())
				assert.Empty(t, gotID, "handler must not run")
			})
		}
	}
}
