// Package cli implements the fastsets command line tool.
//
// The tool reads a YAML document describing a domain, a mapping between its
// elements and a list of named sets, builds a transform from the mapping and
// prints the image of every set:
//
//	domain: labels
//	elements: [a, b, c, d]
//	removed: [c]
//	mapping:
//	  a: b
//	  b: d
//	  d: a
//	sets:
//	  - name: first
//	    members: [a, b]
//
// Every live element must have an entry in mapping, and every image must name
// a live element.
package cli
