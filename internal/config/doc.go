// Package config resolves MindStitch runtime settings.
//
// Sources are layered, later ones winning:
//
//	defaults -> JSON file (-c / --config) -> .env and MINDSTITCH_* variables -> flags
//
// Each layer only touches the fields it actually carries.
package config
