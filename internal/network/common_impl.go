package network

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommandExecutor is the default RealCommandExecutor instance.
var DefaultCommandExecutor CommandExecutor = &RealCommandExecutor{}

// RealCommandExecutor is a concrete implementation of CommandExecutor using os/exec.
type RealCommandExecutor struct{}

// RunCommand runs a command and returns its combined output.
func (r *RealCommandExecutor) RunCommand(name string, arg ...string) (string, error) {
	return r.RunCommandWithInput("", name, arg...)
}

// RunCommandWithInput runs a command with input on stdin and returns its
// combined output.
func (r *RealCommandExecutor) RunCommandWithInput(input, name string, arg ...string) (string, error) {
	cmd := exec.Command(name, arg...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("command %s %v failed: %w, output: %s", name, arg, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
