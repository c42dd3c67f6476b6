package adapter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFacility is a mock implementation of the Facility interface.
type MockFacility struct {
	mock.Mock
}

func (m *MockFacility) Adapters(ctx context.Context) ([]AdapterRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AdapterRecord), args.Error(1)
}
func (m *MockFacility) Configurations(ctx context.Context) ([]ConfigurationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ConfigurationRecord), args.Error(1)
}
func (m *MockFacility) SetDNSServerSearchOrder(ctx context.Context, cfg ConfigurationRecord, servers []string) error {
	args := m.Called(ctx, cfg, servers)
	return args.Error(0)
}
func (m *MockFacility) EnableStatic(ctx context.Context, cfg ConfigurationRecord, addrs, masks []string) error {
	args := m.Called(ctx, cfg, addrs, masks)
	return args.Error(0)
}
func (m *MockFacility) SetGateways(ctx context.Context, cfg ConfigurationRecord, gateways []string, metrics []int) error {
	args := m.Called(ctx, cfg, gateways, metrics)
	return args.Error(0)
}
func (m *MockFacility) Disable(ctx context.Context, a AdapterRecord) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockFacility) Enable(ctx context.Context, a AdapterRecord) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockFacility) LinkUp(ctx context.Context, a AdapterRecord) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

// MockProber is a mock implementation of the GatewayProber interface.
type MockProber struct {
	mock.Mock
}

func (m *MockProber) ProbeGateway(ctx context.Context, gateway string) error {
	args := m.Called(ctx, gateway)
	return args.Error(0)
}
