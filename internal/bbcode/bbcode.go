// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package bbcode converts BBCode source text into HTML. Listing content
// is authored with forum-style tags ([b], [i], [url], [img] and friends)
// and rendered on the detail page.
package bbcode

import (
	bb "github.com/frustra/bbcode"
)

// compiler is the configured bbcode compiler, reused across calls.
// Unmatched tags are left as literal text rather than dropped, so a
// stray bracket in a listing never makes content disappear.
var compiler = newCompiler()

func newCompiler() bb.Compiler {
	c := bb.NewCompiler(true, true)
	return c
}

// ToHTML converts BBCode source into HTML. Plain text passes through
// with newlines turned into <br> tags; HTML special characters in the
// source are escaped by the compiler.
func ToHTML(source string) string {
	return compiler.Compile(source)
}
