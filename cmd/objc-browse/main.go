package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glyphbox/objc/errors"
	"github.com/glyphbox/objc/inspect"
	"github.com/glyphbox/objc/libobjc"
	"github.com/glyphbox/objc/testbed"
)

func main() {
	var (
		fake        = flag.Bool("fake", false, "Browse the in-process testbed instead of the real runtime")
		class       = flag.String("class", "", "Show one class: superclass chain and own methods")
		find        = flag.String("find", "", "Substring filter for class names")
		summary     = flag.Bool("summary", false, "Count classes by root ancestor and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	src, err := pickSource(*fake)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !*fake {
			fmt.Fprintln(os.Stderr, "Hint: -fake browses the built-in testbed on any platform.")
		}
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(src); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(src, *class, *find, *summary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pickSource(fake bool) (inspect.Source, error) {
	if fake {
		tb := testbed.Shared()
		return inspect.Funcs{
			Name:    "testbed",
			Classes: func() ([]string, error) { return tb.ClassNames(), nil },
			Chain: func(class string) ([]string, error) {
				chain := tb.SuperclassChain(class)
				if chain == nil {
					return nil, errors.Resolve(errors.KindClassNotFound, class, "")
				}
				return chain, nil
			},
			Methods: func(class string) ([]string, error) {
				methods := tb.MethodNames(class)
				if methods == nil {
					return nil, errors.Resolve(errors.KindClassNotFound, class, "")
				}
				return methods, nil
			},
		}, nil
	}

	if err := libobjc.Load(); err != nil {
		return nil, err
	}
	return inspect.Funcs{
		Name:    "libobjc",
		Classes: libobjc.ClassNames,
		Chain:   libobjc.SuperclassChain,
		Methods: libobjc.MethodNames,
	}, nil
}

func run(src inspect.Source, class, find string, summary bool) error {
	if class != "" {
		info, err := inspect.Describe(src, class)
		if err != nil {
			return err
		}
		fmt.Printf("Class: %s\n", info.Name)
		fmt.Printf("Chain:")
		for _, c := range info.Chain {
			fmt.Printf(" %s", c)
		}
		fmt.Printf("\n\nMethods (%d):\n", len(info.Methods))
		for _, m := range info.Methods {
			fmt.Printf("  %s\n", m)
		}
		return nil
	}

	if summary {
		counts, err := inspect.Summarize(src)
		if err != nil {
			return err
		}
		fmt.Printf("Runtime: %s\n\nClasses by root:\n", src.Label())
		for _, root := range inspect.Roots(counts) {
			fmt.Printf("  %6d  %s\n", counts[root], root)
		}
		return nil
	}

	names, err := src.ClassNames()
	if err != nil {
		return err
	}
	names = inspect.Filter(names, find)
	fmt.Printf("Runtime: %s\nClasses: %d\n\n", src.Label(), len(names))
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
