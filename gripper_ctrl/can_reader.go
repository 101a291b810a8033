package main

import (
	"context"

	"go.einride.tech/can"
)

// CANReader is the inbound half of the transport: target command frames
// and joint state frames arrive through it.
type CANReader interface {
	ReadFrame(ctx context.Context) (can.Frame, error)
	Close() error
}
