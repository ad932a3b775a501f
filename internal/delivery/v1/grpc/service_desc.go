package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const cartServiceName = "cart.v1.CartService"

// CartServiceServer — операции корзины поверх google.protobuf.Struct.
type CartServiceServer interface {
	GetCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ClearCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ToggleFavorite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type cartMethod func(srv CartServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call cartMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CartServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + cartServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CartServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: cartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetCart", CartServiceServer.GetCart),
		unaryHandler("AddItem", CartServiceServer.AddItem),
		unaryHandler("RemoveItem", CartServiceServer.RemoveItem),
		unaryHandler("UpdateQuantity", CartServiceServer.UpdateQuantity),
		unaryHandler("ClearCart", CartServiceServer.ClearCart),
		unaryHandler("ToggleFavorite", CartServiceServer.ToggleFavorite),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cart/v1/cart_service.proto",
}

// CartServiceClient вызывает CartService по уже открытому соединению.
type CartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) *CartServiceClient {
	return &CartServiceClient{cc: cc}
}

func (c *CartServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+cartServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
