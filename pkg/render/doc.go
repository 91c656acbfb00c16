// Package render turns a metric set into themed SVG statistics cards.
//
// Three card templates are embedded: overview (stars, forks, commits,
// contributions, lines changed, repository count), languages (a
// proportional usage bar with a legend), and community (followers,
// following, sponsoring, starred repositories, join date). Each renders
// against the embedded light and dark themes for six artifacts per run.
//
// Templates are plain SVG documents with {{ token }} placeholders.
// Rendering substitutes data tokens (comma-grouped counts, escaped
// names) and theme tokens (palette colors) in one pass and rejects any
// document that still contains an unresolved token, so a typo in a
// template or theme fails loudly instead of shipping a broken card.
//
// Output files are named by a pattern that must reference both
// {{ template }} and {{ theme }}; see [ValidateNameTemplate].
package render
