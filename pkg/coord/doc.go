// Package coord models Maven library coordinates.
//
// # Overview
//
// A [Coordinate] identifies exactly one library artifact in a remote
// repository using the "groupId:artifactId:version" notation:
//
//	c, err := coord.Parse("com.google.guava:guava:33.0.0-jre")
//	if err != nil {
//	    return err // INVALID_COORDINATE
//	}
//	c.ArchiveFileName() // "guava-33.0.0-jre.jar"
//	c.RemotePath()      // "com/google/guava/guava/33.0.0-jre/guava-33.0.0-jre.jar"
//
// # Derivations
//
// All derivations are plain string concatenation. There is no support for
// version ranges, wildcards, classifiers or packaging types other than jar.
// The same coordinate always maps to the same cache file name and the same
// repository path, which is what lets the local cache be keyed by file name.
package coord
