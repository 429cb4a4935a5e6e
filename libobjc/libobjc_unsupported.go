//go:build !darwin && !linux && !freebsd

package libobjc

import (
	"runtime"

	"github.com/glyphbox/objc/errors"
)

// Available reports whether this platform has a backend at all.
func Available() bool { return false }

func unsupported() *errors.Error {
	return errors.Wrap(errors.PhaseLoad, errors.KindLibraryMissing, nil,
		"no Objective-C runtime backend for "+runtime.GOOS)
}

// Load reports that this platform has no backend.
func Load() error { return unsupported() }

// ClassNames is unavailable on this platform.
func ClassNames() ([]string, error) { return nil, unsupported() }

// SuperclassChain is unavailable on this platform.
func SuperclassChain(string) ([]string, error) { return nil, unsupported() }

// MethodNames is unavailable on this platform.
func MethodNames(string) ([]string, error) { return nil, unsupported() }
