// Package brief2pdf converts markdown briefings to landscape PDF documents
// using headless Chrome.
//
// A briefing is a constrained markdown subset: "# " titles, "## " and "### "
// headings, paragraphs, "- " or "* " bullets, "N." numbered items, pipe
// tables and "---" rules. Inline **bold**, [N] footnote markers and
// [label](url) links are supported. Everything else is treated as plain
// paragraph text.
//
// # Quick Start
//
//	conv, err := brief2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, brief2pdf.Input{
//	    Markdown: "# Weekly Brief\n\n## Summary\n- **Revenue** up [1]",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("brief.pdf", result.PDF, 0644)
//
// The result also carries the layout blocks (result.Blocks) and the
// intermediate HTML (result.HTML). Use Input.HTMLOnly to skip the browser.
//
// # Conversion Pipeline
//
//  1. Preprocessing: BOM removal, \r\n and \r normalised to \n
//  2. Classification: each line becomes zero or more layout blocks
//     (internal/blocks), with inline spans rewritten by internal/markup and
//     table column widths estimated from visible text length
//  3. HTML rendering of the blocks plus the fixed briefing stylesheet;
//     relative link targets are resolved against Input.SourceDir
//  4. PDF rendering via headless Chrome (go-rod), landscape US Letter with
//     0.5in margins
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := brief2pdf.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 or use
// WithNoSandbox. Use ROD_BROWSER_BIN or WithBrowserBin to select a Chrome
// binary.
package brief2pdf
