package mobile

/*
These types are exported and need to be implemented and used by the mobile
application.
*/

//------------------------------------------------------------------------------

// DeliveryHandler receives every message to be displayed, local ones included.
type DeliveryHandler interface {
	OnDeliver(text string, origin string)
}

// ExceptionHandler receives the errors that cannot be returned across the
// mobile boundary.
type ExceptionHandler interface {
	OnException(string)
}
