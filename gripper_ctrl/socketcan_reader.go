//go:build linux || darwin
// +build linux darwin

package main

import (
	"context"
	"fmt"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// SocketCANReader implements CANReader on a SocketCAN interface.
type SocketCANReader struct {
	conn net.Conn
	recv *socketcan.Receiver
}

func NewSocketCANReader(ctx context.Context, ifname string) (*SocketCANReader, error) {
	conn, err := socketcan.DialContext(ctx, "can", ifname)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial: %w", err)
	}
	return &SocketCANReader{
		conn: conn,
		recv: socketcan.NewReceiver(conn),
	}, nil
}

// ReadFrame blocks for a single frame, honoring context cancellation.
func (r *SocketCANReader) ReadFrame(ctx context.Context) (can.Frame, error) {
	frameChan := make(chan can.Frame, 1)
	errChan := make(chan error, 1)

	go func() {
		if r.recv.Receive() {
			frameChan <- r.recv.Frame()
		} else {
			errChan <- fmt.Errorf("receive failed")
		}
	}()

	select {
	case <-ctx.Done():
		return can.Frame{}, ctx.Err()
	case frame := <-frameChan:
		return frame, nil
	case err := <-errChan:
		return can.Frame{}, err
	}
}

func (r *SocketCANReader) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
