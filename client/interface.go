package client

import "context"

// Transport carries raw schedule frames to and from the controller.
type Transport interface {
	Connect(ctx context.Context, addr string) error
	Send(data []byte) error
	Read() ([]byte, error) // blocks for the next frame
	Close() error
}
