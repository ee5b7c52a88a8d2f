package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName     = "talentbridge.identity.v1.Identity"
	AuthorizeMethod = "/" + ServiceName + "/Authorize"
)

// IdentityService is implemented by GRPCServer. Messages are structpb
// structs so callers need no generated stubs.
type IdentityService interface {
	Authorize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Authorize",
			Handler:    authorizeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "talentbridge/identity/v1/identity.proto",
}

func authorizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityService).Authorize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuthorizeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdentityService).Authorize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
