// Package render turns rows, mappings and parameter units into
// deterministic output: canonical JSON for machines and golden files, and
// aligned text tables for people.
package render
