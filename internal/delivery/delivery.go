// Package delivery holds the transports that expose the use cases.
package delivery

import "context"

// Delivery is a server started by the application lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
