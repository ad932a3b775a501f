package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки хранилища корзин
	ErrSnapshotBroken = fmt.Errorf("cart snapshot is broken")
	ErrStaleSnapshot  = fmt.Errorf("stored cart snapshot is newer")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrSessionRequired      = fmt.Errorf("session id is required")
	ErrInvalidProduct       = fmt.Errorf("invalid product")
	ErrInvalidQuantity      = fmt.Errorf("invalid quantity")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidRequestBody   = fmt.Errorf("invalid request body")
	ErrUnknownOrderStatus   = fmt.Errorf("unknown order status")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 404 Not Found
	ErrNotFound        = fmt.Errorf("not found")
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 409 Conflict
	ErrEmptyCart               = fmt.Errorf("cart is empty")
	ErrInvalidStatusTransition = fmt.Errorf("invalid order status transition")

	// 503 Service Unavailable
	ErrServiceUnavailable = fmt.Errorf("service temporarily unavailable")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
