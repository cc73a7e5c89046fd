// Package assets provides the stylesheet used to render briefings.
//
// The stylesheet is embedded at compile time from styles/briefing.css:
//
//	css, err := assets.DefaultStyle()
//
// It is fixed. It defines the page box (landscape US Letter, 0.5in margins)
// and one rule per block kind emitted by the classifier: h1.title, h2, h3,
// p.body, p.bullet, the table grid, and div.spacer.
package assets
