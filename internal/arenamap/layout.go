package arenamap

import (
	"embed"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed layouts/*.yaml
var layoutFS embed.FS

// Entry is the scalar metadata that rides alongside a map's character
// grid (original_source/src/types.h's mapEntry). The raw layout text is
// carried in GridText and parsed into Grid. Persisted state is none — every Entry is
// parsed once at package init from an embedded YAML file.
type Entry struct {
	Name                  string `yaml:"name"`
	Columns               int    `yaml:"columns"`
	Rows                  int    `yaml:"rows"`
	FloatingStandardWalls int    `yaml:"floating_standard_walls"`
	FloatingBouncyWalls   int    `yaml:"floating_bouncy_walls"`
	FloatingDeathWalls    int    `yaml:"floating_death_walls"`
	WeaponPickups         int    `yaml:"weapon_pickups"`
	DefaultWeapon         string `yaml:"default_weapon"`
	GridText              string `yaml:"grid"`

	Grid *Grid `yaml:"-"`
}

var entries []Entry

func init() {
	files, err := layoutFS.ReadDir("layouts")
	if err != nil {
		panic("arenamap: embedded layouts missing: " + err.Error())
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := layoutFS.ReadFile("layouts/" + name)
		if err != nil {
			panic("arenamap: reading embedded layout " + name + ": " + err.Error())
		}
		var e Entry
		if err := yaml.Unmarshal(raw, &e); err != nil {
			panic("arenamap: parsing embedded layout " + name + ": " + err.Error())
		}
		e.Grid = ParseLayout(e.GridText)
		entries = append(entries, e)
	}
}

// Entries returns every embedded map, in stable (sorted by file name) order
// so that Entries()[i] means the same map across process runs — map index
// is part of what a (seed, map index) pair needs to reproduce an episode.
func Entries() []Entry {
	return entries
}

// ByName looks up an embedded map by its declared name.
func ByName(name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
</content>
