// Package main provides the entry point for the extract-favicon CLI.
//
// extract-favicon discovers the favicon candidates a web page declares,
// optionally probes their real dimensions over the network, and reports
// the results in text, JSON, or Markdown.
//
// Usage:
//
//	extract-favicon extract <page-url>
//	extract-favicon check <icon-url>
//
// See --help for all available options.
package main

// main is the entry point for extract-favicon.
func main() {
	Execute()
}
