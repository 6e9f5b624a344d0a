package delivery

import "fmt"

// ErrDeliveryAborted is recorded when the site or carrier is lost mid-delivery
type ErrDeliveryAborted struct {
	DeliveryID string
	Reason     string
}

func (e *ErrDeliveryAborted) Error() string {
	return fmt.Sprintf("delivery %s aborted: %s", e.DeliveryID, e.Reason)
}

// ErrInvalidRequest is returned by Deliver for requests that cannot start a delivery
type ErrInvalidRequest struct {
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid delivery request: %s", e.Reason)
}
