package grpc

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/DRSN-tech/cart-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionMetadataKey — ключ метаданных с идентификатором сессии.
const SessionMetadataKey = "x-session-id"

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrSessionRequired),
		errors.Is(err, e.ErrInvalidRequestBody),
		errors.Is(err, e.ErrInvalidProduct),
		errors.Is(err, e.ErrInvalidQuantity),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrUnknownOrderStatus),
		errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, rootMessage(err))
	case errors.Is(err, e.ErrProductNotFound),
		errors.Is(err, e.ErrOrderNotFound),
		errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, rootMessage(err))
	case errors.Is(err, e.ErrEmptyCart),
		errors.Is(err, e.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, rootMessage(err))
	case errors.Is(err, e.ErrServiceUnavailable):
		return status.Error(codes.Unavailable, e.ErrServiceUnavailable.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// rootMessage отдаёт клиенту только текст sentinel-ошибки, без цепочки op.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func sessionFromMetadata(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	for _, v := range md.Get(SessionMetadataKey) {
		if id := strings.TrimSpace(v); id != "" {
			return id, nil
		}
	}
	return "", e.Wrap("missing "+SessionMetadataKey+" metadata", e.ErrSessionRequired)
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", e.Wrap(name+" is required", e.ErrInvalidRequestBody)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", e.Wrap(name+" must be a string", e.ErrInvalidRequestBody)
	}
	return s.StringValue, nil
}

// intField читает целое число. Если поля нет, возвращается def, а при def == nil возвращается ошибка.
func intField(req *structpb.Struct, name string, def *int) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		if def == nil {
			return 0, e.Wrap(name+" is required", e.ErrInvalidRequestBody)
		}
		return *def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, e.Wrap(name+" must be a number", e.ErrInvalidRequestBody)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, e.Wrap(name+" must be an integer", e.ErrInvalidRequestBody)
	}
	return int(f), nil
}

func isInternal(err error) bool {
	return status.Code(err) == codes.Internal
}
