package web

import "embed"

// StaticFS holds the embedded stylesheet of the setup pages.
//
//go:embed static/*
var StaticFS embed.FS
