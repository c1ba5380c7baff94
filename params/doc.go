// Package params provides the typed parameter registry of the training
// adapter and YAML-based parameter presets.
//
// The registry is a best-effort convenience layer, not a validator: it maps
// the engine's documented option names to their declared value types so that
// string values fetched from the engine can be handed back to the host as
// int or float64. Which names are actually legal at any moment depends on
// the engine's current algorithm selection and is always answered by the
// engine itself, never by this table.
package params
