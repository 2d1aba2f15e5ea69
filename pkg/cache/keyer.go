package cache

// Keyer derives cache keys.
type Keyer interface {
	// ProbeKey returns the key under which the existence of coordinate in
	// the repository at repoURL is remembered.
	ProbeKey(repoURL, coordinate string) string
}

// DefaultKeyer hashes key components so keys are fixed-length and safe to
// use as file names.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ProbeKey returns "probe:<sha256(repoURL, coordinate)>".
func (DefaultKeyer) ProbeKey(repoURL, coordinate string) string {
	return hashKey("probe", repoURL, coordinate)
}
