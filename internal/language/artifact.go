// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/olegiv/ocms-language/internal/config"
)

// Artifact is the compiled content of one (language, category) pair.
type Artifact struct {
	LanguageCode string            `json:"language"`
	Category     string            `json:"category"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Items        map[string]string `json:"items"`
	DynamicItems map[string]string `json:"dynamicItems"`
}

// Codec serializes artifacts into compiled language files.
type Codec interface {
	// Extension is the file extension including the dot.
	Extension() string
	Encode(a Artifact) ([]byte, error)
}

// CodecFor returns the codec of a configured file format.
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", config.FileFormatPHP:
		return PHPCodec{}, nil
	case config.FileFormatJSON:
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown language file format %q", format)
	}
}

// PHPCodec writes include files assigning into $this->items and
// $this->dynamicItems.
type PHPCodec struct{}

// Extension implements Codec.
func (PHPCodec) Extension() string { return ".php" }

var (
	phpStringEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	phpCommentEscaper = strings.NewReplacer("*/", "* /", "\r", " ", "\n", " ")
)

// Encode implements Codec. Keys and values are emitted as single-quoted
// literals in which backslash and quote are the only special characters.
func (PHPCodec) Encode(a Artifact) ([]byte, error) {
	var b strings.Builder

	b.WriteString("<?php\n/**\n* WoltLab Community Framework\n")
	b.WriteString("* language: " + phpCommentEscaper.Replace(a.LanguageCode) + "\n")
	b.WriteString("* encoding: UTF-8\n")
	b.WriteString("* category: " + phpCommentEscaper.Replace(a.Category) + "\n")
	b.WriteString("* generated at " + a.GeneratedAt.UTC().Format(time.RFC1123Z) + "\n")
	b.WriteString("* \n* DO NOT EDIT THIS FILE\n*/\n")

	for _, name := range sortedKeys(a.Items) {
		key := phpStringEscaper.Replace(name)
		fmt.Fprintf(&b, "$this->items['%s'] = '%s';\n", key, phpStringEscaper.Replace(a.Items[name]))
		if dynamic, ok := a.DynamicItems[name]; ok {
			fmt.Fprintf(&b, "$this->dynamicItems['%s'] = '%s';\n", key, phpStringEscaper.Replace(dynamic))
		}
	}
	b.WriteString("?>")

	return []byte(b.String()), nil
}

// JSONCodec writes the artifact as an indented JSON document.
type JSONCodec struct{}

// Extension implements Codec.
func (JSONCodec) Extension() string { return ".json" }

// Encode implements Codec.
func (JSONCodec) Encode(a Artifact) ([]byte, error) {
	a.GeneratedAt = a.GeneratedAt.UTC()
	if a.DynamicItems == nil {
		a.DynamicItems = map[string]string{}
	}
	return json.MarshalIndent(a, "", "  ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
