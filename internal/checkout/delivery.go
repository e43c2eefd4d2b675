package checkout

import "regexp"

var pinRe = regexp.MustCompile(`^\d{6}$`)

// DeliveryEstimate is a shipping window in days for a postal code.
type DeliveryEstimate struct {
	Postcode string `json:"postcode"`
	MinDays  int    `json:"minDays"`
	MaxDays  int    `json:"maxDays"`
	Message  string `json:"message"`
}

// EstimateDelivery accepts a 6-digit postal PIN. Every serviceable PIN gets
// the same window.
func EstimateDelivery(pin string) (DeliveryEstimate, error) {
	if !pinRe.MatchString(pin) {
		return DeliveryEstimate{}, ErrInvalidPostalCode
	}
	return DeliveryEstimate{Postcode: pin, MinDays: 3, MaxDays: 5, Message: "Delivers in 3-5 days to your area"}, nil
}
