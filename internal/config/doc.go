// Package config provides configuration management for avatar-customizer.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - AVATAR_* environment overrides
//   - Default configuration values
//   - Conversion to PartConfig, SourceConfig and CompositorConfig
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// GitHub repo Mgpixelart/avatar-customize-v1@main
//	// parts face, skin, hair, clothes, glass of type .webp
//	// 64x64 canvas, shape -1 preferred as default
//
// # Loading from File
//
//	settings, err := config.Load("avatar.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Environment variables are applied after the file:
//
//	AVATAR_SOURCE=jsdelivr AVATAR_PARTS=face,hair avatar-cli catalog
//
// # Saving Settings
//
//	settings.Ref = "v2"
//	err := settings.Save("avatar.json")
package config
