// Package config loads the settings the viewer engine consumes from the
// settings layer: pan-at-fit permission, zoom bounds, playback defaults, the
// diff refresh cap and probe limits.
//
// Settings come from defaults, an optional YAML file and VIEWER_*
// environment variables. Invalid values are coerced, never rejected. A Store
// holds the live value and a Watcher reloads it when the file changes so the
// engine can pick up new bounds without being rebuilt.
package config
