// ABOUTME: mDNS discovery of LAN speech-synthesis servers
// ABOUTME: Browses for _cadence-synth._tcp services
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service local synthesis servers advertise
const ServiceType = "_cadence-synth._tcp"

// ServerInfo describes a discovered synthesis server
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// Manager handles mDNS browsing
type Manager struct {
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// NewManager creates a discovery manager
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Browse starts searching for synthesis servers
func (m *Manager) Browse() {
	go m.browseLoop()
}

// browseLoop repeatedly queries until the manager is stopped
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}

				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered synthesis server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: ServiceType,
			Domain:  "local",
			Timeout: 3 * time.Second,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop stops the discovery manager
func (m *Manager) Stop() {
	m.cancel()
}
