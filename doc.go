// Package pressmill builds multi-format documents from markdown fragments
// and exports them through headless Chrome.
//
// # Quick Start
//
// Load a resource model, expand a selection into jobs, and run them:
//
//	model, err := pressmill.LoadModel("1.0.0", pressmill.NewRegistry(),
//	    []string{"formats/print"}, []string{"projects/handbook"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	jobs, err := pressmill.NewJobs(model, pressmill.Selection{}, pressmill.JobOptions{
//	    BuildRoot:  "build",
//	    ExportRoot: "export",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipeline := pressmill.NewPipeline(model)
//	defer pipeline.Close()
//
//	outcome := pipeline.RunBuild(ctx, jobs)
//	fmt.Println(outcome.Summary())
//
// # Build Pipeline
//
// Each HTML job follows these stages per document:
//
//  1. Resolve the markdown source through the cascade (project format
//     override, then project, then format)
//  2. Render markdown to HTML via Goldmark (GFM, syntax highlighting,
//     custom block markers)
//  3. Wrap the body in a page shell and run DOM hooks
//  4. Apply translations and write the result under build/<project>/<format>/html
//
// Asset jobs (scripts, stylesheets, images, fonts, vendors) copy resolved
// directories into the build tree. Export jobs capture the built HTML to
// PDF, PNG, JPG, or ZIP.
//
// # Formats and Projects
//
// A format supplies shared sources, export profiles, and rendering hooks. A
// project supplies content and declares which formats it requires, with a
// semver range checked against the format version at load time. Hooks and
// block renderers are registered in code through a Registry and matched to
// descriptors by name.
//
// # Block Markers
//
// Markdown sources may delimit structural regions with marker pairs:
//
//	\panelBegin {"title": "Note"}
//	Body text.
//	\panelEnd
//
// Formats override the emitted markup per block type via BlockRenderers.
// An unterminated marker fails the document with the opening line number.
//
// # Browser Requirements
//
// Exporting requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium instance on first run. For containers and CI environments the
// sandbox is disabled automatically; use ROD_BROWSER_BIN to point at a
// custom Chrome binary.
package pressmill
