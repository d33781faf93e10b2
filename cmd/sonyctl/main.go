// Command sonyctl is a reference CLI wiring sonyproto's core against a
// real RFCOMM-bound serial device: it opens the transport, starts the
// Device facade's poll loop, runs the bootstrap priming sequence, and
// optionally serves a browser status board.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"sonyproto"
	"sonyproto/device"
	"sonyproto/monitor"
	"sonyproto/transport"
)

func main() {
	devicePath := pflag.StringP("device", "d", "/dev/rfcomm0", "RFCOMM-bound serial device")
	address := pflag.StringP("address", "a", "", "Bluetooth address of the paired device (for the status board label)")
	monitorAddr := pflag.StringP("monitor", "m", "", "Address to serve the status board on, e.g. :8080 (empty disables it)")
	verbose := pflag.BoolP("verbose", "v", false, "Log every decoded packet")
	help := pflag.BoolP("help", "h", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sonyctl: a reference driver for Sony's RFCOMM headphone control protocol\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	port, err := transport.Open(transport.DefaultConfig(*devicePath))
	if err != nil {
		log.Fatalf("sonyctl: %v", err)
	}
	defer port.Close()

	dev := sonyproto.NewDevice(port)
	snapshot := device.NewSnapshot(*address)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nsonyctl: shutting down...")
		cancel()
	}()

	packets := dev.Packets()
	go device.Watch(snapshot, packets)

	if *verbose {
		logged := dev.Packets()
		go func() {
			for pkt := range logged {
				log.Printf("sonyctl: seq=%d content=%#v", pkt.Seqnum, pkt.Content)
			}
		}()
	}

	if *monitorAddr != "" {
		hub := monitor.NewHub()
		go monitor.Watch(hub, dev.Packets())
		srv := monitor.NewServer(*monitorAddr, hub)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("sonyctl: monitor server: %v", err)
			}
		}()
	}

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- dev.Run(ctx) }()

	if err := dev.Bootstrap(ctx); err != nil {
		log.Printf("sonyctl: bootstrap: %v", err)
	}

	if err := <-runErrCh; err != nil && ctx.Err() == nil {
		log.Fatalf("sonyctl: %v", err)
	}
}
