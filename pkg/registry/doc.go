// Package registry discovers and loads subcommands.
//
// Commands come from sources. The bundled source holds factories that
// packages register from init():
//
//	func init() {
//		registry.Register("example", func() command.Command { return &Example{} })
//	}
//
// A directory source turns manifest files under a commands directory into
// commands. A Registry combines sources, with later sources shadowing
// earlier ones.
package registry
