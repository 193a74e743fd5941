package pricing

import "sync"

// Stats tracks Pricing API call statistics by service and region
type Stats struct {
	mu     sync.RWMutex
	counts map[string]map[string]map[string]int // service -> region -> {success, failure, cache}
}

// NewStats returns an empty Stats
func NewStats() *Stats {
	return &Stats{
		counts: make(map[string]map[string]map[string]int),
	}
}

// Snapshot returns a copy of the current pricing API statistics
func (s *Stats) Snapshot() map[string]map[string]map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a deep copy of the stats
	statsCopy := make(map[string]map[string]map[string]int)
	for service, regions := range s.counts {
		statsCopy[service] = make(map[string]map[string]int)
		for region, stats := range regions {
			statsCopy[service][region] = make(map[string]int)
			for key, value := range stats {
				statsCopy[service][region][key] = value
			}
		}
	}

	return statsCopy
}
