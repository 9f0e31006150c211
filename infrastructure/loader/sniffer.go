package loader

import (
	"os"
	"path/filepath"

	"github.com/rios0rios0/depsolve/domain"
)

// managerEvidence maps each build tool to the artifacts that betray it.
var managerEvidence = map[domain.Manager][]string{
	domain.ManagerMix:    {"mix.exs"},
	domain.ManagerRebar3: {"rebar.config", "rebar.lock"},
	domain.ManagerMake:   {"Makefile", "makefile"},
}

// Sniffer inspects dependency checkouts for build-tool evidence.
type Sniffer struct{}

// NewSniffer creates a filesystem-backed manager sniffer.
func NewSniffer() *Sniffer { return &Sniffer{} }

// Sniff returns the managers with positive evidence in dir, in priority
// order. The converger takes the first one.
func (s *Sniffer) Sniff(dir string) []domain.Manager {
	if dir == "" {
		return nil
	}
	var found []domain.Manager
	for _, manager := range domain.ManagerPriority {
		for _, artifact := range managerEvidence[manager] {
			if info, err := os.Stat(filepath.Join(dir, artifact)); err == nil && !info.IsDir() {
				found = append(found, manager)
				break
			}
		}
	}
	return found
}
