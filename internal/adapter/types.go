package adapter

import (
	"context"
)

// GatewayMetric is the route metric given to a gateway set through SetIP.
const GatewayMetric = 1

// AdapterRecord is a read-only view of one network adapter on the host.
type AdapterRecord struct {
	Index        int    `json:"index" yaml:"index"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	OperState    string `json:"oper_state" yaml:"oper_state"`
	HardwareAddr string `json:"hardware_addr,omitempty" yaml:"hardware_addr,omitempty"`
	Vendor       string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Driver       string `json:"driver,omitempty" yaml:"driver,omitempty"`
	BusInfo      string `json:"bus_info,omitempty" yaml:"bus_info,omitempty"`
}

// ConfigurationRecord is the IP-layer configuration bound to an adapter.
// IPAddress and IPSubnet are positionally paired, as are DefaultIPGateway
// and GatewayCostMetric.
type ConfigurationRecord struct {
	Index                int      `json:"index" yaml:"index"`
	Name                 string   `json:"name" yaml:"name"`
	Description          string   `json:"description" yaml:"description"`
	IPEnabled            bool     `json:"ip_enabled" yaml:"ip_enabled"`
	DNSServerSearchOrder []string `json:"dns_server_search_order" yaml:"dns_server_search_order"`
	IPAddress            []string `json:"ip_address" yaml:"ip_address"`
	IPSubnet             []string `json:"ip_subnet" yaml:"ip_subnet"`
	DefaultIPGateway     []string `json:"default_ip_gateway" yaml:"default_ip_gateway"`
	GatewayCostMetric    []int    `json:"gateway_cost_metric" yaml:"gateway_cost_metric"`
}

// Facility is the host network-configuration facility. Implementations
// acquire whatever host handles they need per call and release them before
// returning.
type Facility interface {
	// Adapters enumerates every adapter known to the host.
	Adapters(ctx context.Context) ([]AdapterRecord, error)
	// Configurations enumerates the IP configuration of every adapter.
	Configurations(ctx context.Context) ([]ConfigurationRecord, error)

	// SetDNSServerSearchOrder replaces the adapter's DNS servers. An empty
	// list clears them.
	SetDNSServerSearchOrder(ctx context.Context, cfg ConfigurationRecord, servers []string) error
	// EnableStatic assigns static addresses. addrs and masks must be the
	// same length and are paired by position.
	EnableStatic(ctx context.Context, cfg ConfigurationRecord, addrs, masks []string) error
	// SetGateways replaces the adapter's default gateways. gateways and
	// metrics are paired by position.
	SetGateways(ctx context.Context, cfg ConfigurationRecord, gateways []string, metrics []int) error

	Disable(ctx context.Context, a AdapterRecord) error
	Enable(ctx context.Context, a AdapterRecord) error
	// LinkUp reports whether the adapter's link is operational.
	LinkUp(ctx context.Context, a AdapterRecord) (bool, error)
}

// GatewayProber checks that a gateway answers after a restart.
type GatewayProber interface {
	ProbeGateway(ctx context.Context, gateway string) error
}

func matchConfigurations(configs []ConfigurationRecord, description string) []ConfigurationRecord {
	var matches []ConfigurationRecord
	for _, cfg := range configs {
		if cfg.IPEnabled && cfg.Description == description {
			matches = append(matches, cfg)
		}
	}
	return matches
}
