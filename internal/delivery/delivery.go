// Package delivery defines the contract every inbound transport implements.
package delivery

import "context"

// Delivery is a long-running server started by the fx invoke in cmd/tienda.
type Delivery interface {
	Serve(ctx context.Context) error
}
