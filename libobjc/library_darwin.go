package libobjc

// The Apple runtime ships at a fixed path on every darwin release.
var libraryCandidates = []string{
	"/usr/lib/libobjc.A.dylib",
}
