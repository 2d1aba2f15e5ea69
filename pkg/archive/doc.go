// Package archive assembles the executable application archive.
//
// Packaging happens in four steps, driven by [Assembler.Assemble]:
//
//  1. Every cached dependency archive is unpacked into a staging directory,
//     skipping its META-INF/ metadata.
//  2. Files under the resource directory are copied over the compiled output.
//  3. The archiver tool ("jar") is run on the compiled output and the
//     staging directory, with the configured main class as entry point.
//  4. The compiled output directory is emptied, whatever the archiver did.
//
// # Entry safety
//
// Dependency archives come from a remote repository and are not trusted.
// Before anything is written, each entry name is checked: it must be a
// local relative path, and the joined target must stay inside the staging
// root. A single bad entry fails the whole packaging run with
// UNSAFE_ARCHIVE_ENTRY. It is never skipped silently.
//
// Entries from different archives that share a name overwrite each other;
// the last archive in the list wins.
package archive
