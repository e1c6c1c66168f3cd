// Package grid publishes the interactive panel grid as a static site.
//
// A Display is the complete description of the grid: its layout, default
// ordering, the cognostics readers can sort and filter by, and one entry per
// panel. A Publisher turns a Display into a directory that can be opened
// straight from disk or served by any static file host:
//
//	index.html           page shell
//	assets/grid.js       renderer (sorting, filtering, paging, SVG charts)
//	assets/grid.css      styles
//	data/display.js      the display as a script assignment
//	data/cognostics.json cognostics only, for reuse
//	cognostics.xlsx      cognostics and points as a workbook
//	panels/<slug>.png    static thumbnail per panel
//	manifest.json        build id and SHA3-256 digest of every file
//
// The display data is shipped as a script rather than fetched as JSON so the
// page also works when opened with a file:// URL.
package grid
