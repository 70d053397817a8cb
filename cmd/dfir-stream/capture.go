package main

// Optional raw-IQ capture: every incoming buffer is also appended to a file
// whose name is rendered from a strftime pattern, so a long-running capture
// naturally rotates onto a new file each time the rendered name changes
// (typically because the pattern includes %Y%m%d or %H).

import (
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
)

type capture struct {
	pattern string
	cur     string
	f       *os.File
}

func newCapture(pattern string) (*capture, error) {
	if pattern == "" {
		return nil, nil
	}
	if _, err := strftime.Format(pattern, time.Now()); err != nil {
		return nil, fmt.Errorf("dfir-stream: parsing capture_path %q: %w", pattern, err)
	}
	return &capture{pattern: pattern}, nil
}

// Write appends raw sample bytes to the file for the current timestamp,
// rotating to a new file if the rendered name has changed since the last
// write.
func (c *capture) Write(data []int16) error {
	name, err := strftime.Format(c.pattern, time.Now())
	if err != nil {
		return fmt.Errorf("dfir-stream: rendering capture_path: %w", err)
	}
	if name != c.cur {
		if c.f != nil {
			c.f.Close()
		}
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("dfir-stream: opening capture file %q: %w", name, err)
		}
		c.f = f
		c.cur = name
	}

	buf := make([]byte, 2*len(data))
	for i, v := range data {
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	_, err = c.f.Write(buf)
	return err
}

func (c *capture) Close() error {
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}
