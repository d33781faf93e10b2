// Package transport supplies the reference collaborator the sonyproto
// core deliberately does not own: a byte-stream connection to the
// device. An RFCOMM channel bound to /dev/rfcommN behaves like any
// other termios serial device on Linux, so a SerialPort wrapper is
// enough to drive it.
package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is what sonyproto.NewDevice needs: a byte stream that can also
// be closed and flushed once a caller is done with it.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

// Config describes how to open the RFCOMM-bound serial device.
type Config struct {
	// Device is the bound node, e.g. "/dev/rfcomm0".
	Device string

	// ReadTimeout bounds each Read call; RFCOMM ignores baud, but the
	// kernel tty layer still honors VTIME-style read timeouts.
	ReadTimeout time.Duration
}

// DefaultConfig returns sane defaults for an RFCOMM-bound device node.
func DefaultConfig(device string) *Config {
	return &Config{Device: device, ReadTimeout: 250 * time.Millisecond}
}

// SerialPort wraps github.com/tarm/serial's Port as a transport.Port.
type SerialPort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens the serial device described by cfg.
func Open(cfg *Config) (*SerialPort, error) {
	if cfg == nil {
		return nil, fmt.Errorf("transport: config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", cfg.Device, err)
	}

	return &SerialPort{port: port, cfg: cfg}, nil
}

func (p *SerialPort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *SerialPort) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *SerialPort) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}

// Flush is a no-op: tarm/serial does not expose a flush primitive, and
// every Write already blocks until the bytes reach the kernel tty
// buffer, so there is nothing left to flush from here.
func (p *SerialPort) Flush() error { return nil }
