// Package delivery defines the common contract for transport layers.
package delivery

import "context"

// Delivery is a serving surface (HTTP, worker, ...) started by the
// application container.
type Delivery interface {
	Serve(ctx context.Context) error
}
