package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate runs every check and returns all problems found, in a stable order.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) []error{
		collectVersion,
		collectFacility,
		collectShelves,
		collectBooks,
		collectLogging,
	} {
		errs = append(errs, check(cfg)...)
	}
	return errs
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

func validateVersion(cfg *Config) error  { return firstError(collectVersion(cfg)) }
func validateFacility(cfg *Config) error { return firstError(collectFacility(cfg)) }
func validateShelves(cfg *Config) error  { return firstError(collectShelves(cfg)) }
func validateBooks(cfg *Config) error    { return firstError(collectBooks(cfg)) }
func validateLogging(cfg *Config) error  { return firstError(collectLogging(cfg)) }

func collectVersion(cfg *Config) []error {
	if cfg.Version != 1 {
		return []error{fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)}
	}
	return nil
}

func collectFacility(cfg *Config) []error {
	var errs []error
	adj := cfg.Facility.Adjacency
	if len(adj) == 0 {
		return []error{fmt.Errorf("facility.adjacency must not be empty")}
	}
	if _, ok := adj[cfg.Facility.Start]; !ok {
		errs = append(errs, fmt.Errorf("facility.start %q is not a facility node", cfg.Facility.Start))
	}

	for _, node := range sortedKeys(adj) {
		for _, next := range adj[node] {
			back, ok := adj[next]
			if !ok {
				errs = append(errs, fmt.Errorf("facility.adjacency[%q] references unknown node %q", node, next))
				continue
			}
			if !contains(back, node) {
				errs = append(errs, fmt.Errorf("facility.adjacency: edge %s -> %s has no reverse edge", node, next))
			}
		}
	}

	names := make([]string, 0, len(cfg.Facility.Positions))
	for name := range cfg.Facility.Positions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := adj[name]; !ok {
			errs = append(errs, fmt.Errorf("facility.positions[%q] is not a facility node", name))
		}
	}
	return errs
}

func collectShelves(cfg *Config) []error {
	var errs []error
	if len(cfg.Shelves) == 0 {
		return []error{fmt.Errorf("at least one shelf is required")}
	}
	seen := make(map[string]bool, len(cfg.Shelves))
	for i, s := range cfg.Shelves {
		name := strings.TrimSpace(s.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("shelves[%d].name must not be empty", i))
			continue
		case seen[name]:
			errs = append(errs, fmt.Errorf("shelves[%d]: duplicate shelf %q", i, name))
		case name == cfg.Facility.Start:
			errs = append(errs, fmt.Errorf("shelves[%d]: start node %q cannot be a shelf", i, name))
		}
		seen[name] = true
		if _, ok := cfg.Facility.Adjacency[name]; !ok {
			errs = append(errs, fmt.Errorf("shelves[%d]: %q is not a facility node", i, name))
		}
		if s.Capacity < 0 {
			errs = append(errs, fmt.Errorf("shelves[%d]: capacity must be >= 0, got %d", i, s.Capacity))
		}
	}
	if cfg.Inventory.DefaultCapacity < 1 {
		errs = append(errs, fmt.Errorf("inventory.default_capacity must be >= 1, got %d", cfg.Inventory.DefaultCapacity))
	}
	return errs
}

func collectBooks(cfg *Config) []error {
	var errs []error
	capacity := make(map[string]int, len(cfg.Shelves))
	for _, s := range cfg.Shelves {
		capacity[strings.TrimSpace(s.Name)] = cfg.ShelfCapacity(s)
	}
	used := make(map[string]int)
	for i, b := range cfg.Books {
		if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" {
			errs = append(errs, fmt.Errorf("books[%d]: title and author must not be empty", i))
		}
		shelf := strings.TrimSpace(b.Shelf)
		limit, ok := capacity[shelf]
		if !ok {
			errs = append(errs, fmt.Errorf("books[%d]: unknown shelf %q", i, shelf))
			continue
		}
		used[shelf]++
		if used[shelf] == limit+1 {
			errs = append(errs, fmt.Errorf("books: shelf %q holds more than its capacity %d", shelf, limit))
		}
	}
	return errs
}

func collectLogging(cfg *Config) []error {
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return []error{fmt.Errorf("logging.level %q must be one of debug, info, warn, error", cfg.Logging.Level)}
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
