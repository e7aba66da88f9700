// Package configs provides embedded configuration templates for amanels.
//
// Templates are embedded at build time so `amanels config init` works from
// source builds and binary releases alike.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults (config.NewConfig)
//  2. User config (~/.config/amanels/config.yaml)
//  3. Project config (.amanels.yaml)
//  4. Environment variables (AMANELS_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `amanels config init` to the user config
// path. It holds defaults for every search on this machine.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written by `amanels config init --project` to
// .amanels.yaml in the current directory.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
