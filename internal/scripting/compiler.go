// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scripting compiles the placeholder syntax of language values into
// Go text/template source.
//
// Supported placeholders:
//
//	{$name}         HTML-escaped variable
//	{$user.name}    HTML-escaped field access
//	{@$name}        raw variable
//	{#$count}       number, printed as is
//
// Every other brace sequence is kept as literal text.
package scripting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"
)

var placeholderPattern = regexp.MustCompile(`\{([@#]?)\$([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\}`)

// Compiled is the dynamic representation of a language value.
type Compiled struct {
	Template string `json:"template"`
}

// Compiler turns language values into template source.
type Compiler struct{}

// NewCompiler creates a compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// CompileString rewrites the placeholders of value and verifies that the
// result parses. name is used in error messages only.
func (c *Compiler) CompileString(name, value string) (Compiled, error) {
	var b strings.Builder

	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(value, -1) {
		writeLiteral(&b, value[last:m[0]])

		modifier := value[m[2]:m[3]]
		field := "." + value[m[4]:m[5]]
		switch modifier {
		case "@", "#":
			b.WriteString("{{" + field + "}}")
		default:
			b.WriteString("{{html " + field + "}}")
		}
		last = m[1]
	}
	writeLiteral(&b, value[last:])

	out := b.String()
	if _, err := template.New(name).Parse(out); err != nil {
		return Compiled{}, fmt.Errorf("compiling %s: %w", name, err)
	}
	return Compiled{Template: out}, nil
}

// writeLiteral emits text so that no brace in it can open an action.
func writeLiteral(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	if !strings.Contains(text, "{") {
		b.WriteString(text)
		return
	}
	b.WriteString("{{" + strconv.Quote(text) + "}}")
}

// Execute renders compiled source with data.
func Execute(c Compiled, data any) (string, error) {
	tmpl, err := template.New("").Option("missingkey=zero").Parse(c.Template)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
