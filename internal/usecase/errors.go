package usecase

import "errors"

// Input errors. Handlers map these to 400.
var (
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidMessage    = errors.New("name, email and message are required")
	ErrInvalidDiscount   = errors.New("invalid discount code definition")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrSizeRequired      = errors.New("choose a size")
	ErrOutOfStock        = errors.New("not enough stock for the selected size")
)

func IsInput(err error) bool {
	for _, e := range []error{ErrInvalidProduct, ErrInvalidRating, ErrInvalidEmail, ErrInvalidMessage, ErrInvalidDiscount,
		ErrInvalidStatus, ErrUnknownCollection, ErrUnsupportedMedia, ErrSizeRequired, ErrOutOfStock} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
