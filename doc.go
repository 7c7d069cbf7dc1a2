// Package motd renders Markdown news posts to ANSI for terminal display and
// assembles message-of-the-day files from them.
//
// This package is built around a parsed document tree: ParseDocument adapts
// Markdown into a Node tree, Render walks the tree once and emits an ANSI
// body and a Markdown body side by side, Wrap re-flows the ANSI body to a
// column width without breaking escape sequences, and Assemble frames the
// freshest body with header, footer and link blocks into the final MOTD.
//
// Core properties:
//   - One tree walk produces aligned ANSI and Markdown renderings
//   - Escape-aware wrapping re-arms open styles across line breaks
//   - Freshness is decided against an injected clock, never implicitly
//   - Fixed escape sequences; the artifact is read by arbitrary terminals
//
// Example:
//
//	info, body, err := motd.PostInfoFromMarkdown("news/2026/release.md")
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := motd.ParseDocument(body)
//	if err != nil {
//		log.Fatal(err)
//	}
//	date, err := motd.ParsePostDate(info.Date)
//	if err != nil {
//		log.Fatal(err)
//	}
//	text, err := motd.Assemble(motd.AssembleRequest{
//		Body:     motd.Render(doc).ANSI,
//		PostDate: date,
//		Now:      time.Now(),
//		Lifespan: 72 * time.Hour,
//		Width:    80,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(text)
//
// Rendering can be customized using RenderOptions such as briefing mode,
// which stops after the first paragraph of the post.
package motd
