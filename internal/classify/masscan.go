package classify

import (
	"encoding/json"
	"strings"
)

// OpenPort is one open-port candidate reported by the port scanner.
// Candidates are not findings yet; the verification stage confirms them.
type OpenPort struct {
	IP   string
	Port int
}

// scanEntry mirrors one element of masscan -oJ output.
type scanEntry struct {
	IP    string `json:"ip"`
	Ports []struct {
		Port int `json:"port"`
	} `json:"ports"`
}

// OpenPorts parses masscan JSON output (-oJ) into open-port candidates.
// The scanner is treated as untrusted: malformed or partial output degrades
// to whatever entries can be recovered, never an error. Entries without an
// address or without ports are dropped.
func OpenPorts(raw []byte) []OpenPort {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}

	var entries []scanEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		// masscan's JSON writer emits one object per line with trailing
		// commas and a "finished" footer; recover entries line by line.
		entries = entriesFromLines(trimmed)
	}

	var results []OpenPort
	for _, e := range entries {
		if e.IP == "" {
			continue
		}
		for _, p := range e.Ports {
			if p.Port > 0 {
				results = append(results, OpenPort{IP: e.IP, Port: p.Port})
			}
		}
	}
	return results
}

func entriesFromLines(raw string) []scanEntry {
	var entries []scanEntry
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var e scanEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
