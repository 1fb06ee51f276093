package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is registered by hand. Its messages are protobuf well-known
// types, so the descriptor below is all the wiring it needs:
//
//	service Bookmarker {
//	  rpc GetMe(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc GetBookmarks(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	  rpc GetBookmark(google.protobuf.UInt64Value) returns (google.protobuf.Struct);
//	}
const (
	ServiceName = "bookmarker.Bookmarker"

	methodGetMe        = "/" + ServiceName + "/GetMe"
	methodGetBookmarks = "/" + ServiceName + "/GetBookmarks"
	methodGetBookmark  = "/" + ServiceName + "/GetBookmark"
)

type BookmarkerServer interface {
	GetMe(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetBookmarks(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetBookmark(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
}

var bookmarkerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookmarkerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMe", Handler: getMeHandler},
		{MethodName: "GetBookmarks", Handler: getBookmarksHandler},
		{MethodName: "GetBookmark", Handler: getBookmarkHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookmarker.proto",
}

func RegisterBookmarkerServer(s grpc.ServiceRegistrar, srv BookmarkerServer) {
	s.RegisterService(&bookmarkerServiceDesc, srv)
}

func getMeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookmarkerServer).GetMe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMe}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BookmarkerServer).GetMe(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookmarksHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookmarkerServer).GetBookmarks(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetBookmarks}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BookmarkerServer).GetBookmarks(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookmarkHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookmarkerServer).GetBookmark(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetBookmark}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BookmarkerServer).GetBookmark(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

type BookmarkerClient struct {
	cc grpc.ClientConnInterface
}

func NewBookmarkerClient(cc grpc.ClientConnInterface) *BookmarkerClient {
	return &BookmarkerClient{cc: cc}
}

func (c *BookmarkerClient) GetMe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetMe, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookmarkerClient) GetBookmarks(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodGetBookmarks, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookmarkerClient) GetBookmark(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetBookmark, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
