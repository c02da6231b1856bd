// Package validate checks the device address settings before they are used
// to reach an XMnote device.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MinPort and MaxPort are exclusive bounds for a configurable device port.
const (
	MinPort = 1023
	MaxPort = 65535
)

// The first octet must be 1-255; the remaining three also accept a bare "0".
// Leading zeros are rejected everywhere.
var ipv4Pattern = regexp.MustCompile(
	`^(1\d{2}|2[0-4]\d|25[0-5]|[1-9]\d|[1-9])` +
		`\.(1\d{2}|2[0-4]\d|25[0-5]|[1-9]\d|\d)` +
		`\.(1\d{2}|2[0-4]\d|25[0-5]|[1-9]\d|\d)` +
		`\.(1\d{2}|2[0-4]\d|25[0-5]|[1-9]\d|\d)$`,
)

// ErrPortNotNumeric is returned by IsValidPort when the value is not an integer.
var ErrPortNotNumeric = errors.New("port is not an integer")

// ValidationError describes a rejected setting value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidIPv4 reports whether s is a dotted-quad IPv4 address.
func IsValidIPv4(s string) bool {
	return ipv4Pattern.MatchString(s)
}

// IsValidPort reports whether s is an integer strictly between MinPort and MaxPort.
// Non-numeric input yields ErrPortNotNumeric rather than false.
func IsValidPort(s string) (bool, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrPortNotNumeric, s)
	}
	return port > MinPort && port < MaxPort, nil
}

// IPAddress returns a *ValidationError if ip is not a valid IPv4 address.
func IPAddress(ip string) error {
	if !IsValidIPv4(ip) {
		return &ValidationError{Field: "server_ip_addr", Value: ip, Reason: "IP地址无效"}
	}
	return nil
}

// Port returns a *ValidationError if port is non-numeric or out of range.
func Port(port string) error {
	ok, err := IsValidPort(port)
	if err != nil {
		return &ValidationError{Field: "server_port", Value: port, Reason: "端口格式错误: 端口为一个1024 ~ 65535的整数", Err: err}
	}
	if !ok {
		return &ValidationError{Field: "server_port", Value: port, Reason: "端口无效: 端口为一个1024 ~ 65535的整数"}
	}
	return nil
}
