package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "ipca.v1.IndexService"

// Full method names, as seen by interceptors and clients
const (
	ListSeriesMethod = "/" + ServiceName + "/ListSeries"
	LookupMethod     = "/" + ServiceName + "/Lookup"
	CorrectMethod    = "/" + ServiceName + "/Correct"
)

// IndexServiceServer is the server API for ipca.v1.IndexService.
// Messages are google.protobuf.Struct so the service needs no generated code.
type IndexServiceServer interface {
	ListSeries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Lookup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Correct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(IndexServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IndexServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IndexServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// IndexServiceDesc describes ipca.v1.IndexService for grpc.Server.RegisterService
var IndexServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IndexServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListSeries", Handler: unaryHandler(ListSeriesMethod, IndexServiceServer.ListSeries)},
		{MethodName: "Lookup", Handler: unaryHandler(LookupMethod, IndexServiceServer.Lookup)},
		{MethodName: "Correct", Handler: unaryHandler(CorrectMethod, IndexServiceServer.Correct)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterIndexServiceServer registers srv on s
func RegisterIndexServiceServer(s grpc.ServiceRegistrar, srv IndexServiceServer) {
	s.RegisterService(&IndexServiceDesc, srv)
}
