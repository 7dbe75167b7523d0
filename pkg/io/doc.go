// Package io reads well surveys and reads and writes solution files.
//
// # Surveys
//
// A survey names the wells of a campaign and lists what is known about their
// layout: coordinates for wells that were positioned, and measured distances
// between pairs. The same structure is accepted as TOML, YAML or JSON:
//
//	name = "North field"
//	tolerance = 0.05
//
//	[[wells]]
//	name = "B1"
//	x = 0.0
//	y = 0.0
//
//	[[wells]]
//	name = "B2"
//
//	[[distances]]
//	from = "B1"
//	to = "B2"
//	value = 12.4
//
// Distances between two wells that both have coordinates are derived from
// them. A measurement of the same pair must agree with the derived or any
// earlier measured value within the survey tolerance.
//
// A JSON file may instead hold a bare N×N matrix. Entries that are null or
// below -0.5 are unknown; wells are named p0, p1, and so on.
//
// Use [ReadSurveyFile] to load either form and [Survey.Matrix] to build the
// validated distance matrix.
//
// # Solutions
//
// [WriteSolutions] stores a solution set together with the well names and
// the distance matrix it was computed from. Absent points are written as
// null:
//
//	{
//	  "wells": ["B1", "B2", "B3"],
//	  "tolerance": 0.001,
//	  "solutions": [
//	    [[0, 0], [3, 0], [3, 4]],
//	    [[0, 0], [3, 0], null]
//	  ]
//	}
//
// [ReadSolutions] restores the same content for rendering and browsing.
package io
