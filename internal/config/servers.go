package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevServer is a running "rootmind dev-server" process.
type DevServer struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
}

// URL returns the base URL clients should use.
func (s DevServer) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

func serversPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "devservers.json"), nil
}

// RegisterDevServer records a running dev server, dropping dead entries first.
func RegisterDevServer(s DevServer) error {
	path, err := serversPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	servers, _ := readServers(path)
	servers = append(liveServers(servers), s)
	return writeServers(path, servers)
}

// UnregisterDevServer removes the entry for pid.
func UnregisterDevServer(pid int) error {
	path, err := serversPath()
	if err != nil {
		return err
	}

	servers, _ := readServers(path)
	kept := make([]DevServer, 0, len(servers))
	for _, s := range servers {
		if s.PID != pid {
			kept = append(kept, s)
		}
	}
	return writeServers(path, kept)
}

// ListDevServers returns the live dev servers.
func ListDevServers() ([]DevServer, error) {
	path, err := serversPath()
	if err != nil {
		return nil, err
	}
	servers, err := readServers(path)
	if err != nil {
		return nil, err
	}

	live := liveServers(servers)
	if len(live) != len(servers) {
		_ = writeServers(path, live)
	}
	return live, nil
}

// FindDevServerByPort returns the live dev server on port, or nil.
func FindDevServerByPort(port int) *DevServer {
	servers, err := ListDevServers()
	if err != nil {
		return nil
	}
	for _, s := range servers {
		if s.Port == port {
			return &s
		}
	}
	return nil
}

func readServers(path string) ([]DevServer, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var servers []DevServer
	if err := json.Unmarshal(data, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

func writeServers(path string, servers []DevServer) error {
	data, err := json.MarshalIndent(servers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func liveServers(servers []DevServer) []DevServer {
	live := make([]DevServer, 0, len(servers))
	for _, s := range servers {
		if isProcessAlive(s.PID) {
			live = append(live, s)
		}
	}
	return live
}
