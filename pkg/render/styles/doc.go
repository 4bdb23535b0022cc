// Package styles defines how items and group bands are drawn into SVG.
//
// A [Style] receives canvas-space geometry only: culling and the viewport
// translation happen before a style is called, so styles never see items
// outside the visible area.
//
// Two styles ship with timelane:
//   - [Simple]: outlined white items, hairlines between parents
//   - [Banded]: zebra parent bands, items colored by parent
//
// [ByName] resolves the style names accepted on the command line.
package styles
