// Package models defines the shared domain types: targets, outcomes, task
// results, and persisted run summaries.
package models

import (
	"fmt"
	"strings"
)

// Target is a single host or address subject to one dispatch operation.
// Targets are loaded once from an input list and never mutated.
type Target string

// String returns the target address.
func (t Target) String() string {
	return string(t)
}

// Service identifies the service class a sweep operates against.
type Service string

// Supported service classes
const (
	ServiceSSH Service = "ssh"
	ServiceRDP Service = "rdp"
)

// ParseService validates and normalizes a service name from user input.
func ParseService(s string) (Service, error) {
	switch Service(strings.ToLower(strings.TrimSpace(s))) {
	case ServiceSSH:
		return ServiceSSH, nil
	case ServiceRDP:
		return ServiceRDP, nil
	default:
		return "", fmt.Errorf("unsupported service %q (supported: ssh, rdp)", s)
	}
}

// Port returns the default port for the service class.
func (s Service) Port() int {
	switch s {
	case ServiceSSH:
		return 22
	case ServiceRDP:
		return 3389
	default:
		return 0
	}
}

// String returns the lowercase service name.
func (s Service) String() string {
	return string(s)
}
