package grpc

import (
	"context"

	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

type CartService struct {
	cartUC usecase.CartUC
	logger logger.Logger
}

func NewCartService(cartUC usecase.CartUC, logger logger.Logger) *CartService {
	return &CartService{cartUC: cartUC, logger: logger}
}

func (g *CartService) GetCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetCart"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	view, err := g.cartUC.GetCart(ctx, sessionID)
	return g.cartReply(op, view, err)
}

func (g *CartService) AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.AddItem"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}
	productID, err := stringField(req, "product_id")
	if err != nil {
		return nil, g.fail(op, err)
	}
	one := 1
	delta, err := intField(req, "delta", &one)
	if err != nil {
		return nil, g.fail(op, err)
	}

	view, err := g.cartUC.AddItem(ctx, sessionID, productID, delta)
	return g.cartReply(op, view, err)
}

func (g *CartService) RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.RemoveItem"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}
	productID, err := stringField(req, "product_id")
	if err != nil {
		return nil, g.fail(op, err)
	}

	view, err := g.cartUC.RemoveItem(ctx, sessionID, productID)
	return g.cartReply(op, view, err)
}

func (g *CartService) UpdateQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.UpdateQuantity"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}
	productID, err := stringField(req, "product_id")
	if err != nil {
		return nil, g.fail(op, err)
	}
	quantity, err := intField(req, "quantity", nil)
	if err != nil {
		return nil, g.fail(op, err)
	}

	view, err := g.cartUC.UpdateQuantity(ctx, sessionID, productID, quantity)
	return g.cartReply(op, view, err)
}

func (g *CartService) ClearCart(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ClearCart"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	view, err := g.cartUC.ClearCart(ctx, sessionID)
	return g.cartReply(op, view, err)
}

func (g *CartService) ToggleFavorite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ToggleFavorite"

	sessionID, err := sessionFromMetadata(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}
	productID, err := stringField(req, "product_id")
	if err != nil {
		return nil, g.fail(op, err)
	}

	res, err := g.cartUC.ToggleFavorite(ctx, sessionID, productID)
	if err != nil {
		return nil, g.fail(op, err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"product_id":  res.ProductID,
		"is_favorite": res.IsFavorite,
	})
	if err != nil {
		return nil, g.fail(op, err)
	}
	return out, nil
}

func (g *CartService) cartReply(op string, view *usecase.CartView, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, g.fail(op, err)
	}

	out, err := toGRPCCart(view)
	if err != nil {
		return nil, g.fail(op, err)
	}
	return out, nil
}

func (g *CartService) fail(op string, err error) error {
	grpcErr := GRPCErrorResponse(e.Wrap(op, err))
	if isInternal(grpcErr) {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
	} else {
		g.logger.Warnf("%s: %v", op, err)
	}
	return grpcErr
}

func toGRPCCart(v *usecase.CartView) (*structpb.Struct, error) {
	items := make([]any, 0, len(v.Items))
	for _, line := range v.Items {
		items = append(items, map[string]any{
			"product_id": line.Product.ID,
			"name":       line.Product.Name,
			"category":   line.Product.CategoryName,
			"unit_price": line.Product.Price.StringFixed(2),
			"image_url":  line.Product.ImageURL,
			"quantity":   line.Quantity,
			"line_total": line.LineTotal.StringFixed(2),
		})
	}

	return structpb.NewStruct(map[string]any{
		"session_id":  v.SessionID,
		"items":       items,
		"total_items": v.TotalItems,
		"total_price": v.TotalPrice.StringFixed(2),
		"empty":       v.Empty,
	})
}
