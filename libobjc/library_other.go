//go:build linux || freebsd

package libobjc

// GNUstep's libobjc2, under the sonames common distributions ship.
var libraryCandidates = []string{
	"libobjc.so.4.6",
	"libobjc.so.4",
	"libobjc.so",
}
