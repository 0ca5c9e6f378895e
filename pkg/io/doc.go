// Package io reads and writes architecture descriptions and overlay
// configurations.
//
// # Formats
//
// Three encodings are supported, chosen by file extension (see
// [FormatFromPath]): JSON (.json), YAML (.yaml, .yml) and TOML (.toml). All
// three share the field names of [manycore.System] and
// [attributes.Document]. A 1x2 description in YAML:
//
//	rows: 1
//	columns: 2
//	cores:
//	  - id: 0
//	    allocatedTask: 3
//	    attributes: {temperature: "61"}
//	    channels: [{direction: East}, {direction: North}]
//	  - id: 1
//	    router: {attributes: {buffer: "8"}}
//	    channels: [{direction: West}]
//	routing:
//	  RowFirst:
//	    - {core: 0, direction: East, load: 20}
//
// and a configuration in TOML:
//
//	[core."@id"]
//	type = "text"
//	label = "ID"
//
//	[core."@temperature"]
//	type = "colouredText"
//	label = "Temp"
//	bounds = [0, 50, 70, 90]
//	colours = ["green", "yellow", "orange", "red"]
//
// # Import
//
// [ImportSystem] and [ImportConfiguration] open a file and decode it;
// [ReadSystem] and [ReadConfiguration] decode from any io.Reader. Decoded
// descriptions are validated with [manycore.System.Validate]; decoded
// configurations with [attributes.Document.Build].
//
// # Export
//
// [WriteSystem], [WriteConfiguration] and their file-based counterparts
// encode in any of the three formats, so a description can be converted
// between them.
package io
