package dns

import (
	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of the Runner interface.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunCommand(name string, arg ...string) (string, error) {
	argsSlice := []interface{}{name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	args := m.Called(argsSlice...)
	return args.String(0), args.Error(1)
}

func (m *MockRunner) RunCommandWithInput(input, name string, arg ...string) (string, error) {
	argsSlice := []interface{}{input, name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	args := m.Called(argsSlice...)
	return args.String(0), args.Error(1)
}
