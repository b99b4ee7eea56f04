package controller

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/hashicorp/mdns"
	"github.com/mbocsi/lightsched/proto"
)

// Advertise announces the controller's websocket endpoint on the local
// network. The returned server must be shut down by the caller.
func Advertise(addr string) (*mdns.Server, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parse listen address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse listen port: %w", err)
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "lightsched"
	}

	svc, err := mdns.NewMDNSService(host, proto.ServiceType, "", "", port, nil, []string{"path=/"})
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}

	slog.Info("Advertising controller", "service", proto.ServiceType, "host", host, "port", port)
	return srv, nil
}
