// Package config loads the YAML bundle the devtools (cmd/citeproc-inspect,
// cmd/citeproc-lsp) read references and clusters from. It is the one place
// both binaries share for turning a YAML document (with $VAR/${VAR}
// environment expansion, mirroring the teacher's dirbuild.LoadEnv) into the
// core's value.Reference and processor.ClusterInput shapes. Style
// compilation stays out of scope here too (spec §1): a Bundle carries
// references and clusters only, and each devtool supplies its own
// in-process demo style.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/processor"
	"github.com/tonycite/citeproc/value"
)

// NameDoc is a YAML-friendly value.PersonName.
type NameDoc struct {
	Literal string `yaml:"literal,omitempty"`
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Suffix  string `yaml:"suffix,omitempty"`
}

func (n NameDoc) toValue() value.PersonName {
	return value.PersonName{Literal: n.Literal, Family: n.Family, Given: n.Given, Suffix: n.Suffix}
}

// DateDoc is a YAML-friendly value.DateOrRange: either a literal string or
// a (year, month, day) start, optionally extended into a range by EndYear.
type DateDoc struct {
	Literal string `yaml:"literal,omitempty"`
	Year    int    `yaml:"year,omitempty"`
	Month   int    `yaml:"month,omitempty"`
	Day     int    `yaml:"day,omitempty"`
	Circa   bool   `yaml:"circa,omitempty"`

	EndYear  *int `yaml:"endYear,omitempty"`
	EndMonth int  `yaml:"endMonth,omitempty"`
	EndDay   int  `yaml:"endDay,omitempty"`
}

func (d DateDoc) toValue() value.DateOrRange {
	if d.Literal != "" {
		return value.DateOrRange{Literal: d.Literal}
	}
	out := value.DateOrRange{Start: value.Date{Year: d.Year, Month: d.Month, Day: d.Day, Circa: d.Circa}}
	if d.EndYear != nil {
		out.End = &value.Date{Year: *d.EndYear, Month: d.EndMonth, Day: d.EndDay}
	}
	return out
}

// ReferenceDoc is a YAML-friendly value.Reference.
type ReferenceDoc struct {
	ID       string                 `yaml:"id"`
	Type     string                 `yaml:"type"`
	Lang     string                 `yaml:"lang,omitempty"`
	Ordinary map[string]string      `yaml:"ordinary,omitempty"`
	Number   map[string]string      `yaml:"number,omitempty"`
	Names    map[string][]NameDoc   `yaml:"names,omitempty"`
	Dates    map[string]DateDoc     `yaml:"dates,omitempty"`
}

func (r ReferenceDoc) toValue() value.Reference {
	numbers := make(map[string]value.Number, len(r.Number))
	for k, raw := range r.Number {
		numbers[k] = value.NewNumber(raw)
	}
	names := make(map[string][]value.PersonName, len(r.Names))
	for v, list := range r.Names {
		out := make([]value.PersonName, len(list))
		for i, n := range list {
			out[i] = n.toValue()
		}
		names[v] = out
	}
	dates := make(map[string]value.DateOrRange, len(r.Dates))
	for v, d := range r.Dates {
		dates[v] = d.toValue()
	}
	return value.NewReference(r.ID, r.Type, r.Lang, r.Ordinary, numbers, names, dates)
}

// CiteDoc is a YAML-friendly cite.Cite (prefix/suffix micro-formatting is
// an external collaborator's concern per spec §1 and is not exposed here).
type CiteDoc struct {
	ID             int64  `yaml:"id"`
	ReferenceID    string `yaml:"referenceId"`
	LocatorType    string `yaml:"locatorType,omitempty"`
	LocatorValue   string `yaml:"locatorValue,omitempty"`
	SuppressInText bool   `yaml:"suppressInText,omitempty"`
	SuppressRest   bool   `yaml:"suppressRest,omitempty"`
}

func (c CiteDoc) toCite() cite.Cite {
	out := cite.Cite{
		ID:          cite.ID(c.ID),
		ReferenceID: c.ReferenceID,
		Suppression: cite.Suppression{InText: c.SuppressInText, Rest: c.SuppressRest},
	}
	if c.LocatorType != "" {
		out.Locator = &cite.Locator{Type: cite.LocatorType(c.LocatorType), Value: c.LocatorValue}
	}
	return out
}

// ClusterDoc is a YAML-friendly processor.ClusterInput.
type ClusterDoc struct {
	ID       string    `yaml:"id"`
	IsNote   bool      `yaml:"isNote,omitempty"`
	Note     int       `yaml:"note,omitempty"`
	SubIndex int       `yaml:"subIndex,omitempty"`
	InText   int       `yaml:"inText,omitempty"`
	Cites    []CiteDoc `yaml:"cites"`
}

func (c ClusterDoc) toClusterInput() processor.ClusterInput {
	cites := make([]cite.Cite, len(c.Cites))
	for i, cd := range c.Cites {
		cites[i] = cd.toCite()
	}
	return processor.ClusterInput{
		ID:     cite.ClusterID(c.ID),
		Number: cite.ClusterNumber{IsNote: c.IsNote, Note: c.Note, SubIndex: c.SubIndex, InText: c.InText},
		Cites:  cites,
	}
}

// Bundle is the top-level shape a devtool's YAML input file parses into.
type Bundle struct {
	OutputFormat string         `yaml:"outputFormat,omitempty"`
	References   []ReferenceDoc `yaml:"references"`
	Clusters     []ClusterDoc   `yaml:"clusters"`
}

// References converts the bundle's reference docs to value.Reference.
func (b *Bundle) References() []value.Reference {
	out := make([]value.Reference, len(b.References))
	for i, r := range b.References {
		out[i] = r.toValue()
	}
	return out
}

// ClusterInputs converts the bundle's cluster docs to processor.ClusterInput.
func (b *Bundle) ClusterInputs() []processor.ClusterInput {
	out := make([]processor.ClusterInput, len(b.Clusters))
	for i, c := range b.Clusters {
		out[i] = c.toClusterInput()
	}
	return out
}

// Load reads path, expands $VAR/${VAR} references against the process
// environment (the teacher's dirbuild.LoadEnv does this for its own
// YTOOL_ENV-keyed sub-document; here the whole file is expanded, since a
// devtool bundle has no nested evaluation language to preserve), and
// unmarshals the result into a Bundle.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}
	expanded := os.Expand(string(raw), os.Getenv)
	var b Bundle
	if err := yaml.Unmarshal([]byte(expanded), &b); err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", path, err)
	}
	return &b, nil
}
