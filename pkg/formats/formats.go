// Package formats provides parsers for Sherman and Rommel engine file formats.
package formats

// Binary formats: SOB models (sob.go), MAP levels (mapfile.go), RSB images
// (rsb.go) and DMP light lists (dmp.go). Text formats: CXP material
// properties (cxp.go) and MIS mission descriptions (mission.go).
