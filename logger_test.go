package objc_test

import (
	"sync"
	"testing"

	"github.com/glyphbox/objc"
	"go.uber.org/zap"
)

func TestLogger_Default(t *testing.T) {
	if objc.Logger() == nil {
		t.Fatal("no default logger")
	}
	if objc.Logger() != objc.Logger() {
		t.Fatal("default logger not stable across calls")
	}
}

func TestSetLogger_ConcurrentWithLogger(t *testing.T) {
	installed := zap.NewNop()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if objc.Logger() == nil {
					t.Error("Logger returned nil during replacement")
					return
				}
			}
		}()
	}
	for i := 0; i < 500; i++ {
		objc.SetLogger(installed)
	}
	wg.Wait()

	if objc.Logger() != installed {
		t.Fatal("installed logger was not returned")
	}
}
