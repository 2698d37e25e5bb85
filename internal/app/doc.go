// Package app contains the core application logic. It defines the App
// struct, its configuration and the operations behind every command, decoupled
// from the CLI entrypoint.
package app
