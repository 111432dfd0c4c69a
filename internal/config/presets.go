package config

import "sort"

// Presets are canned scenarios, applied over the defaults.
var Presets = map[string]*Config{
	"calm": {
		Particles: 24, Width: 800, Height: 800, Radius: 12,
		Gravity: 400, Restitution: 0.8, MaxSpeed: 80,
	},
	"dense": {
		Particles: 200, Width: 800, Height: 800, Radius: 8,
		Gravity: 980, Restitution: 0.9, MaxSpeed: 250,
	},
	"zero-g": {
		Particles: 64, Width: 800, Height: 800, Radius: 10,
		Gravity: 0, Restitution: 1.0, MaxSpeed: 300,
	},
	"rain": {
		Particles: 120, Width: 600, Height: 900, Radius: 5,
		Gravity: 1500, Restitution: 0.5, MaxSpeed: 60,
	},
}

// GetPreset returns the named preset merged over the defaults, or nil for
// an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Particles = p.Particles
	cfg.Width = p.Width
	cfg.Height = p.Height
	cfg.Radius = p.Radius
	cfg.Gravity = p.Gravity
	cfg.Restitution = p.Restitution
	cfg.MaxSpeed = p.MaxSpeed
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
