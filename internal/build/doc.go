// Package build runs a blogsmith site build.
//
// A build discovers Markdown sources, parses them, lets plugins react to
// each phase (document read, environment updated, document resolved,
// collect pages, page context, build finished) and writes HTML pages.
// All execution paths (CLI build, preview, tests) go through BuildService.
package build
