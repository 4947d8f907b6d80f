/*
Package config loads event bus tuning from YAML or JSON files.

# Overview

A Bus config carries the knobs the bus exposes as options: history
capacity, route depth limit, and delivery queue size. The loaders
reject unknown keys, so a typo in a tuning file fails loudly instead of
being silently ignored, and Validate refuses negative values.

# Usage

	cfg, err := config.FromFile("eventflow.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	bus := event.NewBus(cfg.Options()...)

Zero-valued fields fall back to the bus defaults, so a file that sets
only history_capacity tunes that one knob and leaves the rest alone.

# File Loading

FromFile auto-detects YAML and JSON by extension; FromYAML and FromJSON
parse raw bytes.
*/
package config
