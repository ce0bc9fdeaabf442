// Package classify maps raw external-tool output to typed outcomes.
//
// The token grammars recognized here are external, versioned contracts owned
// by the tools themselves. Classification is pure and fails open: a line that
// does not match, or matches but cannot be extracted, is skipped rather than
// raised as an error.
package classify

import (
	"strings"
	"time"

	"github.com/mwalsh/harrier/internal/models"
)

// Credentials scans hydra/ncrack textual output line by line for credential
// hits against target. Multiple hits per target are possible and all are
// returned. Output that contains no recognized success marker yields nil.
//
// Recognized line shapes (hydra -o / ncrack -oN):
//
//	[22][ssh] host: 10.0.0.1   login: root   password: toor
//	... login: <user> ... password: <pass> ...
func Credentials(output string, service models.Service, target models.Target) []models.Finding {
	var findings []models.Finding

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "login:") || !strings.Contains(line, "password:") {
			continue
		}

		username, ok := tokenAfter(line, "login:")
		if !ok {
			continue
		}
		password, ok := tokenAfter(line, "password:")
		if !ok {
			continue
		}

		findings = append(findings, models.Finding{
			Target:  target,
			Service: service,
			Detail: map[string]string{
				"username": username,
				"password": password,
			},
			Time: time.Now(),
		})
	}

	return findings
}

// tokenAfter returns the whitespace-delimited token following marker.
// Reports false when the marker is absent or is the last token on the line.
func tokenAfter(line, marker string) (string, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == marker && i+1 < len(fields) {
			return fields[i+1], true
		}
	}
	return "", false
}
