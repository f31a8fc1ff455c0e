package grpc

// proto.go hand-writes what protoc-gen-go-grpc would emit for
// bib.underwriting.v1.UnderwritingService. Messages are plain structs carried
// by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "bib.underwriting.v1.UnderwritingService"

// Full method names, as seen by interceptors.
const (
	MethodRunUnderwriting       = "/" + serviceName + "/RunUnderwriting"
	MethodGetUnderwritingResult = "/" + serviceName + "/GetUnderwritingResult"
	MethodListDealUnderwriting  = "/" + serviceName + "/ListDealUnderwriting"
)

// UnderwritingServiceServer is the server API for UnderwritingService.
type UnderwritingServiceServer interface {
	RunUnderwriting(context.Context, *RunUnderwritingRequest) (*UnderwritingResultResponse, error)
	GetUnderwritingResult(context.Context, *GetUnderwritingResultRequest) (*UnderwritingResultResponse, error)
	ListDealUnderwriting(context.Context, *ListDealUnderwritingRequest) (*ListDealUnderwritingResponse, error)
	mustEmbedUnimplementedUnderwritingServiceServer()
}

// UnimplementedUnderwritingServiceServer provides forward-compatible default implementations.
type UnimplementedUnderwritingServiceServer struct{}

func (UnimplementedUnderwritingServiceServer) RunUnderwriting(context.Context, *RunUnderwritingRequest) (*UnderwritingResultResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunUnderwriting not implemented")
}
func (UnimplementedUnderwritingServiceServer) GetUnderwritingResult(context.Context, *GetUnderwritingResultRequest) (*UnderwritingResultResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUnderwritingResult not implemented")
}
func (UnimplementedUnderwritingServiceServer) ListDealUnderwriting(context.Context, *ListDealUnderwritingRequest) (*ListDealUnderwritingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListDealUnderwriting not implemented")
}
func (UnimplementedUnderwritingServiceServer) mustEmbedUnimplementedUnderwritingServiceServer() {}

// RegisterUnderwritingServiceServer registers srv with the gRPC server.
func RegisterUnderwritingServiceServer(s grpclib.ServiceRegistrar, srv UnderwritingServiceServer) {
	s.RegisterService(&underwritingServiceDesc, srv)
}

var underwritingServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UnderwritingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RunUnderwriting", Handler: runUnderwritingHandler},
		{MethodName: "GetUnderwritingResult", Handler: getUnderwritingResultHandler},
		{MethodName: "ListDealUnderwriting", Handler: listDealUnderwritingHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/underwriting/v1/underwriting.proto",
}

// unary adapts a typed method to the grpc.MethodDesc handler signature.
func unary[Req, Resp any](
	fullMethod string,
	call func(UnderwritingServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(UnderwritingServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	runUnderwritingHandler = unary(MethodRunUnderwriting,
		UnderwritingServiceServer.RunUnderwriting)
	getUnderwritingResultHandler = unary(MethodGetUnderwritingResult,
		UnderwritingServiceServer.GetUnderwritingResult)
	listDealUnderwritingHandler = unary(MethodListDealUnderwriting,
		UnderwritingServiceServer.ListDealUnderwriting)
)

// UnderwritingServiceClient is the client API for UnderwritingService.
type UnderwritingServiceClient interface {
	RunUnderwriting(ctx context.Context, in *RunUnderwritingRequest, opts ...grpclib.CallOption) (*UnderwritingResultResponse, error)
	GetUnderwritingResult(ctx context.Context, in *GetUnderwritingResultRequest, opts ...grpclib.CallOption) (*UnderwritingResultResponse, error)
	ListDealUnderwriting(ctx context.Context, in *ListDealUnderwritingRequest, opts ...grpclib.CallOption) (*ListDealUnderwritingResponse, error)
}

type underwritingServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewUnderwritingServiceClient returns a client that always selects the JSON codec.
func NewUnderwritingServiceClient(cc grpclib.ClientConnInterface) UnderwritingServiceClient {
	return &underwritingServiceClient{cc: cc}
}

func (c *underwritingServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpclib.CallOption) error {
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *underwritingServiceClient) RunUnderwriting(ctx context.Context, in *RunUnderwritingRequest, opts ...grpclib.CallOption) (*UnderwritingResultResponse, error) {
	out := new(UnderwritingResultResponse)
	if err := c.invoke(ctx, MethodRunUnderwriting, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *underwritingServiceClient) GetUnderwritingResult(ctx context.Context, in *GetUnderwritingResultRequest, opts ...grpclib.CallOption) (*UnderwritingResultResponse, error) {
	out := new(UnderwritingResultResponse)
	if err := c.invoke(ctx, MethodGetUnderwritingResult, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *underwritingServiceClient) ListDealUnderwriting(ctx context.Context, in *ListDealUnderwritingRequest, opts ...grpclib.CallOption) (*ListDealUnderwritingResponse, error) {
	out := new(ListDealUnderwritingResponse)
	if err := c.invoke(ctx, MethodListDealUnderwriting, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
