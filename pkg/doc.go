// Package pkg holds the libraries behind the jsb command.
//
// # Overview
//
// jsb builds small Java projects without a build script: the project file
// (jsb.toml) names the tools, the directories and the declared dependencies,
// and every command is a prefix of the same pipeline.
//
//  1. [coord] - Dependency coordinates (group:artifact:version)
//  2. [integrations/maven] - Repository probes and downloads
//  3. [deps] - Declared dependencies and the local archive cache
//  4. [searchpath] - Class search path construction
//  5. [process] - External tool execution
//  6. [archive] - Runnable archive assembly with dependencies inlined
//  7. [pipeline] - Orchestration (fetch → compile → run or package)
//
// # Architecture
//
//	jsb.toml ([config])
//	     ↓
//	[deps] Store ── missing ──→ [deps] Fetcher ──→ [integrations/maven]
//	     ↓
//	[pipeline] Compile ──→ [process] Runner (javac)
//	     ↓
//	[pipeline] Run (java)  or  [archive] Assembler (jar)
//
// Supporting packages: [errors] (coded errors), [httputil] (retry),
// [cache] (probe result cache), [observability] (hooks), [project]
// (scaffolding) and [buildinfo] (version).
package pkg
