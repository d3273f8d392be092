// Package hcl provides the HCL implementation of the config.Loader and
// config.Converter interfaces.
//
// Attribute expressions are evaluated against an evaluation context exposing
// the `cpu_count` variable and the numeric functions max, min, abs, ceil and
// floor, so a file can size the worker pool relative to the machine:
//
//	scheduler {
//	  threads = max(1, cpu_count - 1)
//	}
package hcl
