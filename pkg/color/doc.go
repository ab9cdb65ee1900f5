// Package color turns semantic output roles (ERROR, SUCCESS, ...) into ANSI
// escape sequences.
//
// A Style maps every Role to a formatting function. Styles are built from a
// palette, and palettes are selected with a configuration string made of
// semicolon separated tokens:
//
//	light                     use the light palette
//	error=yellow/blue,blink   override a single role: fg[/bg][,opt...]
//	dark;notice=magenta       tokens apply left to right
//
// Unknown roles, colors and options are ignored. When nothing in the string
// changes the all-plain palette, the resulting Style leaves text untouched.
package color
