// Command citeproc-inspect loads a references/clusters bundle, runs one
// compute() pass against a representative demo style, and prints a
// colorized trace of each cluster's rendered text and whether compute()
// considered it changed. It is a development aid, not part of the core's
// public contract (spec §1); the colorizing and TTY-detection follow the
// teacher's own cmd/o, which picks encode.NewColors() on when its output
// is a terminal and stays plain otherwise.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/internal/config"
	"github.com/tonycite/citeproc/internal/devtool"
	"github.com/tonycite/citeproc/processor"
)

func main() {
	bundlePath := flag.String("bundle", "", "path to a references/clusters YAML bundle")
	outputFormat := flag.String("format", "plain-text", "plain-text, html, or rtf")
	flag.Parse()

	if *bundlePath == "" {
		fmt.Fprintln(os.Stderr, "citeproc-inspect: -bundle is required")
		os.Exit(2)
	}

	if err := run(*bundlePath, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "citeproc-inspect: %v\n", err)
		os.Exit(1)
	}
}

func run(bundlePath, outputFormat string) error {
	bundle, err := config.Load(bundlePath)
	if err != nil {
		return err
	}
	if bundle.OutputFormat != "" {
		outputFormat = bundle.OutputFormat
	}

	p, err := processor.New("", devtool.NewStyleCompiler(), devtool.NoLocaleFetcher{}, devtool.NewTermStore(), nil, outputFormat)
	if err != nil {
		return err
	}
	p.SetReferences(bundle.References())
	p.InitClusters(bundle.ClusterInputs())

	if err := p.Compute(); err != nil {
		return err
	}

	changed := map[string]bool{}
	for _, u := range p.BatchedUpdates() {
		changed[string(u.ClusterID)] = true
	}

	colorsOn := isatty.IsTerminal(os.Stdout.Fd())
	idColor := colorFunc(colorsOn, color.FgCyan)
	changedColor := colorFunc(colorsOn, color.FgYellow)
	textColor := colorFunc(colorsOn, color.FgGreen)

	for _, doc := range bundle.Clusters {
		id := doc.ID
		text, ok := p.GetCluster(cite.ClusterID(id))
		if !ok {
			fmt.Printf("%s: <no rendering>\n", idColor(id))
			continue
		}
		mark := ""
		if changed[id] {
			mark = changedColor(" (changed)")
		}
		fmt.Printf("%s%s: %s\n", idColor(id), mark, textColor(text))
	}
	return nil
}

func colorFunc(on bool, attr color.Attribute) func(string) string {
	c := color.New(attr)
	c.EnableColor()
	if !on {
		c.DisableColor()
	}
	return func(s string) string { return c.Sprint(s) }
}
