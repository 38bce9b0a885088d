package config

import "sort"

var Presets = map[string]map[string]*Config{
	"linear-regression": {
		"default": {
			Viz: "linear-regression", Seed: 1, Steps: 500, LearningRate: 0.0001,
		},
		"slow": {
			Viz: "linear-regression", Seed: 1, Steps: 2000, LearningRate: 0.00001,
		},
		"aggressive": {
			Viz: "linear-regression", Seed: 1, Steps: 200, LearningRate: 0.0003,
		},
	},
	"logistic-regression": {
		"default": {
			Viz: "logistic-regression", Seed: 1, Steps: 50,
		},
		"long": {
			Viz: "logistic-regression", Seed: 1, Steps: 500,
		},
	},
	"k-means": {
		"default": {
			Viz: "k-means", Seed: 1, Steps: 10,
		},
		"auto": {
			Viz: "k-means", Seed: 7, Steps: 20, IntervalMs: 400,
		},
	},
	"neural-network": {
		"default": {
			Viz: "neural-network", Seed: 1, Steps: 200,
		},
		"fast": {
			Viz: "neural-network", Seed: 1, Steps: 200, IntervalMs: 20,
		},
	},
}

func GetPreset(viz, preset string) *Config {
	vizPresets, ok := Presets[viz]
	if !ok {
		return nil
	}
	cfg, ok := vizPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(viz string) []string {
	vizPresets, ok := Presets[viz]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(vizPresets))
	for name := range vizPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
