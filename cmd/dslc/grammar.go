package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/michelematteini/dslmanager/compiler"
)

// readCompiler builds a compiler of the language defined by the grammar file at path. The
// compiler is named after the file.
func readCompiler(path string, opts ...compiler.Option) (*compiler.BasicCompiler, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	opts = append([]compiler.Option{compiler.WithSink(ptermSink{})}, opts...)
	c, err := compiler.New(name, "", string(src), opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	return c, nil
}

func readSource(path string) (string, error) {
	if path == "" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(src), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	return string(src), nil
}

// recoverError turns a panic of a command into its error and prints the stack of the panic.
func recoverError(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}
