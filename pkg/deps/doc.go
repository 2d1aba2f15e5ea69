// Package deps manages the flat list of library coordinates a project
// declares and the local cache directory holding their archives.
//
// # Store
//
// [Store] is an ordered, de-duplicated set of coordinates persisted in the
// deps.coordinates key of jsb.toml. Every mutation rewrites the whole list
// in one atomic save, so the file never contains a half-applied change.
// Equality is by canonical "group:artifact:version" string.
//
// The cache directory is flat: each coordinate maps to exactly one file,
// {cache_dir}/{artifact}-{version}.jar. A coordinate is "cached" when that
// file exists. Two coordinates with the same artifact and version but
// different groups share one cache file; jsb does not try to tell them apart.
//
// # Fetching
//
// [Fetcher] downloads every declared coordinate whose cache file is missing.
// Downloads run one at a time in declaration order, and the first failure
// stops the batch. Archives fetched before the failure stay in the cache.
//
//	store := deps.NewStore(cfg, "jsb.toml")
//	f := &deps.Fetcher{Store: store, Downloader: maven.NewClient(cfg.Deps.Repository)}
//	paths, err := f.FetchMissing(ctx)
//
// Nothing in this package resolves transitive dependencies or checks
// archive checksums.
package deps
