package worldgen

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := SmallTestConfig().Validate(); err != nil {
		t.Fatalf("small config invalid: %v", err)
	}
}

func TestTotalRegions(t *testing.T) {
	if got := DefaultConfig().totalRegions(); got != 18 {
		t.Fatalf("default total regions = %d, want 18", got)
	}
	if got := SmallTestConfig().totalRegions(); got != 2 {
		t.Fatalf("small total regions = %d, want 2", got)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative extra count", func(c *Config) { c.Regions.ExtraCount = -1 }},
		{"zero radius", func(c *Config) { c.Regions.Radius = 0 }},
		{"negative padding", func(c *Config) { c.Regions.MinPadding = -2 }},
		{"mountain factor over 100", func(c *Config) { c.Mountains.Factor = 101 }},
		{"negative cleanup factor", func(c *Config) { c.Mountains.CleanupFactor = -5 }},
		{"lowlands target over 100", func(c *Config) { c.Climate.LowlandsTargetPercent = 150 }},
		{"continental min at 1", func(c *Config) { c.Elevation.ContinentalScaleMin = 1 }},
		{"negative river density", func(c *Config) { c.Rivers.DensityFactor = -1 }},
		{"zero path steps", func(c *Config) { c.Rivers.MaxPathSteps = 0 }},
		{"zero viewport", func(c *Config) { c.Viewport.HexPixelW = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
