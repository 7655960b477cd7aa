package config

// Config describes the facility map, the shelf table and the seed catalog.
type Config struct {
	Version   int           `toml:"version" yaml:"version"`
	Facility  Facility      `toml:"facility" yaml:"facility"`
	Shelves   []ShelfConfig `toml:"shelves" yaml:"shelves"`
	Books     []BookConfig  `toml:"books" yaml:"books"`
	Inventory Inventory     `toml:"inventory" yaml:"inventory"`
	Logging   Logging       `toml:"logging" yaml:"logging"`
}

type Facility struct {
	Start     string              `toml:"start" yaml:"start"`
	Adjacency map[string][]string `toml:"adjacency" yaml:"adjacency"`
	Positions map[string]Position `toml:"positions" yaml:"positions"`
}

// Position is a map coordinate in arbitrary units (pixels in the default map).
type Position struct {
	X int `toml:"x" yaml:"x"`
	Y int `toml:"y" yaml:"y"`
}

type ShelfConfig struct {
	Name     string `toml:"name" yaml:"name"`
	Capacity int    `toml:"capacity" yaml:"capacity"` // 0 means inventory.default_capacity
}

type BookConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Author string `toml:"author" yaml:"author"`
	Shelf  string `toml:"shelf" yaml:"shelf"`
}

type Inventory struct {
	DefaultCapacity int `toml:"default_capacity" yaml:"default_capacity"`
}

type Logging struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// ShelfCapacity resolves the effective capacity of a configured shelf.
func (c *Config) ShelfCapacity(s ShelfConfig) int {
	if s.Capacity > 0 {
		return s.Capacity
	}
	return c.Inventory.DefaultCapacity
}

// ShelfNames returns the configured shelves in order.
func (c *Config) ShelfNames() []string {
	names := make([]string, 0, len(c.Shelves))
	for _, s := range c.Shelves {
		names = append(names, s.Name)
	}
	return names
}

// Default returns the built-in facility: one entrance, two halls and five
// shelves, seeded with three books.
func Default() *Config {
	cfg := &Config{
		Facility: defaultFacility(),
		Shelves:  defaultShelves(),
		Books: []BookConfig{
			{Title: "AI", Author: "Russell", Shelf: "Shelf-A"},
			{Title: "Database", Author: "Silberschatz", Shelf: "Shelf-B"},
			{Title: "Python", Author: "Matthes", Shelf: "Shelf-C"},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func defaultFacility() Facility {
	return Facility{
		Start: "Entrance",
		Adjacency: map[string][]string{
			"Entrance": {"Hall-1"},
			"Hall-1":   {"Entrance", "Hall-2", "Shelf-A", "Shelf-B"},
			"Hall-2":   {"Hall-1", "Shelf-C", "Shelf-D", "Shelf-E"},
			"Shelf-A":  {"Hall-1"},
			"Shelf-B":  {"Hall-1"},
			"Shelf-C":  {"Hall-2"},
			"Shelf-D":  {"Hall-2"},
			"Shelf-E":  {"Hall-2"},
		},
		Positions: map[string]Position{
			"Entrance": {X: 30, Y: 30},
			"Hall-1":   {X: 140, Y: 30},
			"Hall-2":   {X: 250, Y: 30},
			"Shelf-A":  {X: 110, Y: 95},
			"Shelf-B":  {X: 180, Y: 95},
			"Shelf-C":  {X: 250, Y: 95},
			"Shelf-D":  {X: 330, Y: 95},
			"Shelf-E":  {X: 410, Y: 95},
		},
	}
}

func defaultShelves() []ShelfConfig {
	return []ShelfConfig{
		{Name: "Shelf-A"},
		{Name: "Shelf-B"},
		{Name: "Shelf-C"},
		{Name: "Shelf-D"},
		{Name: "Shelf-E"},
	}
}
