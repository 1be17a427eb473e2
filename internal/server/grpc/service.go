package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "profiles.v1.AccountService"

// Method names of ServiceName.
const (
	MethodPing              = "Ping"
	MethodCreateUser        = "CreateUser"
	MethodLogin             = "Login"
	MethodRefreshToken      = "RefreshToken"
	MethodGetProfile        = "GetProfile"
	MethodCreateSuperuser   = "CreateSuperuser"
	MethodDeactivateAccount = "DeactivateAccount"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AccountServiceServer is the server API of ServiceName. Every message is a
// google.protobuf.Struct.
type AccountServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSuperuser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeactivateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AccountServiceDesc describes ServiceName for grpc.Server.RegisterService.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodPing, AccountServiceServer.Ping),
		methodDesc(MethodCreateUser, AccountServiceServer.CreateUser),
		methodDesc(MethodLogin, AccountServiceServer.Login),
		methodDesc(MethodRefreshToken, AccountServiceServer.RefreshToken),
		methodDesc(MethodGetProfile, AccountServiceServer.GetProfile),
		methodDesc(MethodCreateSuperuser, AccountServiceServer.CreateSuperuser),
		methodDesc(MethodDeactivateAccount, AccountServiceServer.DeactivateAccount),
	},
	Streams: []grpc.StreamDesc{},
}

// AccountServiceClient calls ServiceName over a client connection.
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

// Call invokes method with the given fields and returns the response fields.
func (c *AccountServiceClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
