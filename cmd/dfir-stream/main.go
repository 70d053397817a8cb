// Command dfir-stream runs a direct-form complex FIR decimation pipeline
// against a live UDP source of interleaved int16 IQ samples, optionally
// derotating, capturing the raw input, announcing itself via DNS-SD, and
// steering the derotation shift from a CAT-controlled rig's reported
// frequency.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/skywave-dsp/dfir"
)

const (
	inputChunkSamples = 4096
	outputChunkBudget = 4096
)

func usage2() {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Configuration is read from a YAML file; see the Config type in\n")
	fmt.Fprintf(os.Stderr, "cmd/dfir-stream/config.go for the field reference.\n")
}

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to pipeline YAML config (required)")
	var verbose = pflag.BoolP("verbose", "v", false, "Enable debug logging")
	var help = pflag.BoolP("help", "h", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - direct-form complex FIR decimation pipeline.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Reads interleaved int16 IQ samples from a UDP socket, decimates them\n")
		fmt.Fprintf(os.Stderr, "through a complex FIR filter, and forwards the result.\n")
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
		usage2()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *configPath == "" {
		logger.Error("missing required --config flag")
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", "err", err)
		os.Exit(1)
	}

	if cfg.Station != nil {
		logger.Info("station", "tag", stationTag(cfg.Station))
	}

	var rc *rig
	if cfg.RigPort != "" {
		rc, err = openRig(cfg.RigPort, cfg.RigBaud)
		if err != nil {
			logger.Error("opening rig control port", "err", err)
			os.Exit(1)
		}
		defer rc.Close()
	}

	freqShiftHz := cfg.FreqShiftHz
	if rc != nil {
		if hz, err := rc.FrequencyHz(); err != nil {
			logger.Warn("reading rig frequency, falling back to configured shift", "err", err)
		} else {
			freqShiftHz = cfg.FreqShiftHz - hz
			logger.Info("derotation shift computed from rig readback", "rig_freq_hz", hz, "shift_hz", freqShiftHz)
		}
	}

	var opts []dfir.Option
	if cfg.Derotate {
		opts = append(opts, dfir.WithDerotation(cfg.SampleRateHz, freqShiftHz))
	}

	f, err := dfir.New(cfg.TapsRe, cfg.TapsIm, cfg.Decimation, opts...)
	if err != nil {
		logger.Error("constructing filter", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	var capt *capture
	if cfg.CapturePath != "" {
		capt, err = newCapture(cfg.CapturePath)
		if err != nil {
			logger.Error("configuring capture", "err", err)
			os.Exit(1)
		}
		defer capt.Close()
	}

	if cfg.Advertise {
		advertise(cfg, logger)
	}

	in, err := net.ListenPacket("udp", cfg.Listen)
	if err != nil {
		logger.Error("listening for input", "addr", cfg.Listen, "err", err)
		os.Exit(1)
	}
	defer in.Close()

	var out net.Conn
	if cfg.Output != "" {
		out, err = net.Dial("udp", cfg.Output)
		if err != nil {
			logger.Error("dialing output", "addr", cfg.Output, "err", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	logger.Info("dfir-stream running", "listen", cfg.Listen, "taps", len(cfg.TapsRe), "decimation", cfg.Decimation)

	var peak dfir.PeakTracker
	if err := run(f, in, out, capt, &peak, logger); err != nil {
		logger.Error("pipeline stopped", "err", err)
		os.Exit(1)
	}
}

// run is the ingest/decimate/emit loop. It reads UDP datagrams of
// interleaved int16 IQ samples, wraps each in a reference-counted buffer,
// and feeds the filter, honoring its back-pressure contract: when Full
// reports true the datagram is held until Process has drained enough of the
// queue to accept it, rather than dropped or blocked on indefinitely.
func run(f *dfir.Filter, in net.PacketConn, out net.Conn, capt *capture, peak *dfir.PeakTracker, logger *log.Logger) error {
	raw := make([]byte, 2*2*inputChunkSamples)
	outBuf := make([]int16, 2*outputChunkBudget)

	var pending dfir.SampleBuffer
	for {
		if pending == nil {
			nBytes, _, err := in.ReadFrom(raw)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			nSamples := nBytes / 4
			if nSamples == 0 {
				continue
			}

			samples := make([]int16, 2*nSamples)
			for i := 0; i < 2*nSamples; i++ {
				samples[i] = int16(raw[2*i]) | int16(raw[2*i+1])<<8
			}
			if capt != nil {
				if err := capt.Write(samples); err != nil {
					logger.Warn("capture write failed", "err", err)
				}
			}
			pending = dfir.NewRefCountedBuffer(nSamples, samples)
		}

		if f.Full() {
			drain(f, out, outBuf, peak, logger)
			continue
		}

		if err := f.Push(pending); err != nil {
			if err == dfir.ErrBusy {
				continue
			}
			return fmt.Errorf("pushing buffer: %w", err)
		}
		pending = nil

		drain(f, out, outBuf, peak, logger)
	}
}

// drain pulls as much decimated output as is currently available and
// forwards it, returning the number of samples produced.
func drain(f *dfir.Filter, out net.Conn, outBuf []int16, peak *dfir.PeakTracker, logger *log.Logger) (int, error) {
	can, estimate := f.CanProcess()
	if !can {
		return 0, nil
	}
	if estimate > outputChunkBudget {
		estimate = outputChunkBudget
	}

	n, err := f.Process(outBuf, estimate)
	if err != nil {
		return 0, fmt.Errorf("processing: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	payload := outBuf[:2*n]
	for i := 0; i < n; i++ {
		peak.Observe(payload[2*i], payload[2*i+1])
	}
	if peak.Peak() > 31000 {
		logger.Warn("output approaching full scale", "peak", peak.Peak())
		peak.Reset()
	}

	if out != nil {
		wire := make([]byte, 2*len(payload))
		for i, v := range payload {
			wire[2*i] = byte(v)
			wire[2*i+1] = byte(v >> 8)
		}
		if _, err := out.Write(wire); err != nil {
			logger.Warn("forwarding output failed", "err", err)
		}
	} else {
		for i := 0; i < n; i++ {
			fmt.Printf("%d %d\n", payload[2*i], payload[2*i+1])
		}
	}
	return n, nil
}
