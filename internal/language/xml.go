// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/olegiv/ocms-language/internal/store"
)

// XML schema constants.
const (
	Namespace      = "http://www.woltlab.com"
	SchemaLocation = "http://www.woltlab.com http://www.woltlab.com/XSD/maelstrom/language.xsd"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Root attribute names.
const (
	AttrLanguageCode = "languagecode"
	AttrLanguageName = "languagename"
	AttrCountryCode  = "countrycode"
)

// Document is a parsed language file.
type Document struct {
	XMLName    xml.Name      `xml:"language"`
	Attrs      []xml.Attr    `xml:",any,attr"`
	Categories []DocCategory `xml:"category"`
}

// DocCategory is a category element of a language file.
type DocCategory struct {
	Name  string    `xml:"name,attr"`
	Items []DocItem `xml:"item"`
}

// DocItem is an item element; Value holds the CDATA content.
type DocItem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ParseDocument reads a language file. A leading byte order mark is skipped.
func ParseDocument(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	var doc Document
	if err := xml.NewDecoder(br).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing language file: %w", err)
	}
	return &doc, nil
}

func (d *Document) attr(name string) (string, error) {
	for _, a := range d.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingAttribute, name)
}

// LanguageCode returns the languagecode root attribute.
func (d *Document) LanguageCode() (string, error) { return d.attr(AttrLanguageCode) }

// LanguageName returns the languagename root attribute.
func (d *Document) LanguageName() (string, error) { return d.attr(AttrLanguageName) }

// CountryCode returns the countrycode root attribute.
func (d *Document) CountryCode() (string, error) { return d.attr(AttrCountryCode) }

// ItemCount returns the number of item elements.
func (d *Document) ItemCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Items)
	}
	return n
}

// writeExport writes items as a language file: categories and items sorted
// by name, values in CDATA sections.
func writeExport(w io.Writer, lang store.Language, items []store.ExportItem) error {
	grouped := make(map[string]map[string]string)
	for _, item := range items {
		if grouped[item.Category] == nil {
			grouped[item.Category] = make(map[string]string)
		}
		grouped[item.Category][item.Name] = item.Value
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.Write(utf8BOM)
	_, _ = bw.WriteString(xml.Header)
	fmt.Fprintf(bw, `<language xmlns=%q xmlns:xsi=%q xsi:schemaLocation=%q %s="%s" %s="%s" %s="%s">`+"\n",
		Namespace, xsiNamespace, SchemaLocation,
		AttrLanguageCode, escapeAttr(lang.LanguageCode),
		AttrLanguageName, escapeAttr(lang.LanguageName),
		AttrCountryCode, escapeAttr(lang.CountryCode),
	)

	for _, category := range sortedKeys(grouped) {
		fmt.Fprintf(bw, "\t<category name=\"%s\">\n", escapeAttr(category))
		for _, name := range sortedKeys(grouped[category]) {
			fmt.Fprintf(bw, "\t\t<item name=\"%s\"><![CDATA[%s]]></item>\n",
				escapeAttr(name), escapeCDATA(grouped[category][name]))
		}
		_, _ = bw.WriteString("\t</category>\n")
	}
	_, _ = bw.WriteString("</language>")

	return bw.Flush()
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// escapeCDATA splits every "]]>" across two adjacent CDATA sections.
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
