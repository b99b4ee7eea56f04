package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/mbocsi/lightsched/proto"
)

const ServiceType = proto.ServiceType

// DiscoveredService represents a discovered controller
type DiscoveredService struct {
	ServiceName string
	Address     string
	Port        int
	TXTRecords  []string
}

// URL returns the websocket URL of the discovered controller.
func (s *DiscoveredService) URL() string {
	return fmt.Sprintf("ws://%s:%d/", s.Address, s.Port)
}

// DiscoverController returns the first controller answering on the local
// network, or an error after timeout.
func DiscoverController(timeout time.Duration) (*DiscoveredService, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	entriesCh := make(chan *mdns.ServiceEntry, 4)

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entriesCh
	params.Timeout = timeout
	params.DisableIPv6 = true

	// Start discovery in background
	go func() {
		defer close(entriesCh)
		if err := mdns.Query(params); err != nil {
			slog.Warn("mDNS query failed", "service", ServiceType, "error", err.Error())
		}
	}()

	// Wait for first result or timeout
	select {
	case entry := <-entriesCh:
		if entry == nil {
			return nil, fmt.Errorf("no %s service found", ServiceType)
		}

		var address string
		if entry.AddrV4 != nil {
			address = entry.AddrV4.String()
		} else if entry.AddrV6 != nil {
			address = fmt.Sprintf("[%s]", entry.AddrV6.String())
		} else {
			return nil, fmt.Errorf("no valid address found for service")
		}

		service := &DiscoveredService{
			ServiceName: entry.Name,
			Address:     address,
			Port:        entry.Port,
			TXTRecords:  entry.InfoFields,
		}

		slog.Info("Discovered controller",
			"service_name", service.ServiceName,
			"address", service.Address,
			"port", service.Port,
		)

		return service, nil

	case <-time.After(timeout):
		return nil, fmt.Errorf("mDNS discovery timeout for %s", ServiceType)
	}
}
