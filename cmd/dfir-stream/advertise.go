package main

// Announce the decimated-IQ output stream using DNS-SD so that downstream
// consumers on the local network (a waterfall display, a logging station)
// can find this pipeline without the operator typing in a host and port.
//
// Uses the pure-Go github.com/brutella/dnssd package for cross-platform
// mDNS/DNS-SD service announcement without a system daemon dependency.

import (
	"context"
	"net"
	"strconv"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

const dnssdServiceType = "_dfir-iq._udp"

// outputPort extracts the numeric port from a "host:port" address, or 0 if
// addr is empty or malformed (the caller then announces and logs port 0
// rather than failing startup over it).
func outputPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

func advertise(cfg *Config, logger *log.Logger) {
	name := cfg.ServiceName
	if name == "" {
		name = "dfir-stream"
	}

	svcCfg := dnssd.Config{
		Name: name,
		Type: dnssdServiceType,
		Port: outputPort(cfg.Output),
	}

	sv, err := dnssd.NewService(svcCfg)
	if err != nil {
		logger.Error("dns-sd: failed to create service", "err", err)
		return
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		logger.Error("dns-sd: failed to create responder", "err", err)
		return
	}

	if _, err := rp.Add(sv); err != nil {
		logger.Error("dns-sd: failed to add service", "err", err)
		return
	}

	logger.Info("dns-sd: announcing output stream", "name", name, "port", svcCfg.Port)

	go func() {
		if err := rp.Respond(context.Background()); err != nil {
			logger.Error("dns-sd: responder stopped", "err", err)
		}
	}()
}
