// Command xsched runs the real-time musical scheduler with its OSCQuery
// remote-control surface: an HTTP server for address-tree discovery and
// an OSC/UDP server for command and value traffic, both talking to a
// single control.System that owns the scheduler's params and graph.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/x37v/go-xsched/core/control"
	"github.com/x37v/go-xsched/core/factory"
	"github.com/x37v/go-xsched/core/midi"
	"github.com/x37v/go-xsched/core/sched"
	"github.com/x37v/go-xsched/host"
	"github.com/x37v/go-xsched/oscctrl"
)

func main() {
	httpAddr := flag.String("http-addr", ":3000", "address the OSCQuery discovery HTTP server listens on")
	oscAddr := flag.String("osc-addr", ":3010", "address the OSC/UDP command server listens on")
	sampleRate := flag.Uint64("sample-rate", 48000, "sample rate, in Hz, the ticker driver simulates")
	framesPerBlock := flag.Uint64("frames", 512, "frames per simulated audio block")
	midiQueueCapacity := flag.Int("midi-queue-capacity", midi.DefaultCapacity, "outgoing MIDI queue capacity")
	flag.Parse()

	scheduler := sched.New()
	midiQueue := midi.NewQueue(*midiQueueCapacity)

	paramFactories := factory.NewParamFactories()
	factory.RegisterDefaults(paramFactories)

	graphFactories := factory.NewGraphFactories()
	factory.RegisterDefaultGraph(graphFactories)

	factoryCtx := &factory.FactoryContext{Scheduler: scheduler, MIDIQueue: midiQueue}
	system := control.NewSystem(paramFactories, graphFactories, factoryCtx)

	httpServer := oscctrl.NewServer(*httpAddr, system)
	oscServer := oscctrl.NewOSCServer(*oscAddr, system)

	adapter := host.NewAdapter(scheduler, midiQueue)
	period := time.Duration(*framesPerBlock) * time.Second / time.Duration(*sampleRate)
	driver := host.NewTickerDriver(adapter, host.LogWriter{}, *framesPerBlock, *sampleRate, period)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var g errgroup.Group
	controlStop := make(chan struct{})

	g.Go(func() error {
		system.Run(controlStop)
		return nil
	})
	g.Go(func() error {
		driver.Run()
		return nil
	})
	g.Go(func() error {
		drainDisposal(scheduler, controlStop)
		return nil
	})
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := oscServer.ListenAndServe(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	log.Printf("xsched: OSCQuery HTTP on %s, OSC/UDP on %s", *httpAddr, *oscAddr)

	<-ctx.Done()
	log.Printf("xsched: shutting down")
	close(controlStop)
	driver.Stop()
	if err := httpServer.Close(); err != nil {
		log.Printf("xsched: http close: %v", err)
	}
	if err := oscServer.Close(); err != nil {
		log.Printf("xsched: osc close: %v", err)
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

// drainDisposal keeps the scheduler's off-thread disposal sink (spec §5)
// actually drained, so DisposalDropped only counts genuine backlog against
// DisposalOverflowCapacity rather than a channel nobody was reading.
func drainDisposal(s *sched.Scheduler, stop <-chan struct{}) {
	for {
		select {
		case <-s.Disposal():
		case <-stop:
			return
		}
	}
}
