package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/term"
)

// rig is a minimal serial-port control-port client: it asks an attached
// radio for its currently tuned frequency so the pipeline can compute the
// derotation shift (targetFreqHz - rig-reported frequency) without the
// operator re-entering it by hand whenever the radio is retuned.
//
// The wire protocol ("f\n" -> frequency in Hz as ASCII, newline-terminated)
// is deliberately the lowest common denominator most CAT-control firmwares
// can be made to speak via a simple macro; it is not a full rig-control
// stack, which is out of scope for this tool.
type rig struct {
	t *term.Term
	r *bufio.Reader
}

// openRig opens a serial control port at the given device path and baud.
func openRig(device string, baud int) (*rig, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("dfir-stream: opening rig control port %q: %w", device, err)
	}
	if baud != 0 {
		if err := t.SetSpeed(baud); err != nil {
			return nil, fmt.Errorf("dfir-stream: setting rig control port speed: %w", err)
		}
	}
	return &rig{t: t, r: bufio.NewReader(t)}, nil
}

// FrequencyHz queries the rig's currently tuned frequency.
func (r *rig) FrequencyHz() (float64, error) {
	if _, err := r.t.Write([]byte("f\n")); err != nil {
		return 0, fmt.Errorf("dfir-stream: writing rig query: %w", err)
	}
	line, err := r.r.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("dfir-stream: reading rig response: %w", err)
	}
	hz, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("dfir-stream: parsing rig response %q: %w", line, err)
	}
	return hz, nil
}

// Close releases the serial port.
func (r *rig) Close() error {
	return r.t.Close()
}
