package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jocover/BTLE"
	"github.com/jocover/BTLE/radio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		chanFlag    int
		gainFlag    int
		backendFlag string
		serverFlag  string
		captureFlag string
		replayFlag  string
		configFlag  string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "btle-rx",
		Short: "Receive and decode BLE advertising-channel packets from an SDR front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := btle.DefaultConfig()

			if configFlag != "" {
				if _, err := os.Stat(configFlag); err != nil {
					return fmt.Errorf("load config %s: %w", configFlag, err)
				}
				loaded, err := btle.LoadConfigFile(cfg, configFlag)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configFlag, err)
				}
				cfg = loaded
			}

			if cmd.Flags().Changed("chan") {
				cfg.Channel = chanFlag
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backendFlag
			}
			if cmd.Flags().Changed("gain") {
				cfg.Gain = gainFlag
			} else if radio.Backend(cfg.Backend) == radio.BladeRF && cfg.Gain == btle.DefaultConfig().Gain {
				// HackRF's default of 10 dB isn't a sensible BladeRF
				// default; fall back to BladeRF's own default gain
				// unless something upstream already chose a gain.
				cfg.Gain = 66
			}
			if cmd.Flags().Changed("server") {
				cfg.Server = serverFlag
			}
			if cmd.Flags().Changed("capture") {
				cfg.Capture = captureFlag
			}
			if cmd.Flags().Changed("replay") {
				cfg.Replay = replayFlag
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}

			return run(cfg)
		},
	}

	cmd.Flags().IntVarP(&chanFlag, "chan", "c", 37, "BLE channel number, 0..39")
	cmd.Flags().IntVarP(&gainFlag, "gain", "g", 10, "RX gain in dB (default 10 for hackrf/nettcp, 66 for bladerf)")
	cmd.Flags().StringVar(&backendFlag, "backend", "hackrf", "radio back-end: hackrf, bladerf, nettcp")
	cmd.Flags().StringVar(&serverFlag, "server", "127.0.0.1:1234", "rtl_tcp server address (nettcp backend only)")
	cmd.Flags().StringVar(&captureFlag, "capture", "", "dump received IQ samples to this file")
	cmd.Flags().StringVar(&replayFlag, "replay", "", "replay IQ samples from this file instead of a live backend")
	cmd.Flags().StringVar(&configFlag, "config", "", "YAML file of default settings")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func newLogger(verbose bool) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(log)
}

func run(cfg btle.Config) error {
	log := newLogger(cfg.Verbose)

	if cfg.Replay == "" {
		backend := radio.Backend(cfg.Backend)
		if err := radio.ValidateGain(backend, uint8(cfg.Gain)); err != nil {
			return err
		}
		if _, err := radio.FrequencyForChannel(cfg.Channel); err != nil {
			return err
		}
	}

	recv := btle.NewReceiver(os.Stdout)
	ring := btle.NewRing()
	var stop atomic.Bool

	var capture *btle.CaptureWriter
	if cfg.Capture != "" {
		f, err := os.Create(cfg.Capture)
		if err != nil {
			return fmt.Errorf("open capture file: %w", err)
		}
		capture = btle.NewCaptureWriter(f, log)
		defer capture.Close()
	}

	widen := widenIQ8
	if radio.Backend(cfg.Backend) == radio.BladeRF {
		widen = widenIQ16LE
	}

	onSamples := func(raw []byte) {
		if capture != nil {
			capture.Write(raw)
		}
		ring.Push(widen(raw))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		os.Interrupt, syscall.SIGTERM, syscall.SIGABRT,
		syscall.SIGILL, syscall.SIGFPE, syscall.SIGSEGV,
	)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		stop.Store(true)
	}()

	if cfg.Replay != "" {
		f, err := os.Open(cfg.Replay)
		if err != nil {
			return fmt.Errorf("open replay file: %w", err)
		}
		source := btle.NewReplaySource(f)
		defer source.Close()

		go recv.Loop(ring, cfg.Channel, &stop)

		err = source.Run(onSamples)
		stop.Store(true)
		return err
	}

	dev, err := openDevice(log, radio.Backend(cfg.Backend), cfg.Server)
	if err != nil {
		return fmt.Errorf("open radio device: %w", err)
	}
	defer dev.Close()

	freqHz, err := radio.FrequencyForChannel(cfg.Channel)
	if err != nil {
		return err
	}
	if err := dev.Configure(freqHz, uint8(cfg.Gain)); err != nil {
		return fmt.Errorf("configure radio: %w", err)
	}

	go recv.Loop(ring, cfg.Channel, &stop)

	startErrCh := make(chan error, 1)
	go func() { startErrCh <- dev.Start(onSamples) }()

	select {
	case err := <-startErrCh:
		stop.Store(true)
		return err
	case <-waitStop(&stop):
		dev.Stop()
		return <-startErrCh
	}
}

func waitStop(stop *atomic.Bool) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		for !stop.Load() {
			time.Sleep(time.Millisecond)
		}
		close(ch)
	}()
	return ch
}

func openDevice(log *logrus.Entry, backend radio.Backend, server string) (radio.Device, error) {
	switch backend {
	case radio.HackRF:
		return radio.NewHackRFDevice(log)
	case radio.BladeRF:
		return radio.NewBladeRFDevice(log)
	case radio.NetTCP:
		return radio.NewNetTCPDevice(log, server)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// widenIQ8 widens a signed-int8 IQ transfer (HackRF, nettcp) into int32
// scalars.
func widenIQ8(raw []byte) []int32 {
	out := make([]int32, len(raw))
	for i, b := range raw {
		out[i] = int32(int8(b))
	}
	return out
}

// widenIQ16LE widens a little-endian signed-int16 IQ transfer (BladeRF)
// into int32 scalars.
func widenIQ16LE(raw []byte) []int32 {
	out := make([]int32, len(raw)/2)
	for i := range out {
		out[i] = int32(int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8))
	}
	return out
}
