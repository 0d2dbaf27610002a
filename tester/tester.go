package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/michelematteini/dslmanager/compiler"
)

type TestResult struct {
	SourcePath string
	Error      error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent = "    "
		msgLines := strings.Split(r.Error.Error(), "\n")
		return fmt.Sprintf("Failed %v:\n%v%v", r.SourcePath, indent, strings.Join(msgLines, "\n"+indent))
	}
	return fmt.Sprintf("Passed %v", r.SourcePath)
}

type SourceWithMetadata struct {
	Text     string
	FilePath string
	Error    error
}

// ListSources reads the program at path, or every program below path when it is a directory.
// Inside directories only the files with extension ext are read; an empty ext reads them all.
func ListSources(path string, ext string) []*SourceWithMetadata {
	fi, err := os.Stat(path)
	if err != nil {
		return []*SourceWithMetadata{
			{
				FilePath: path,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		src, err := os.ReadFile(path)
		return []*SourceWithMetadata{
			{
				Text:     string(src),
				FilePath: path,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(path)
	if err != nil {
		return []*SourceWithMetadata{
			{
				FilePath: path,
				Error:    err,
			},
		}
	}
	var srcs []*SourceWithMetadata
	for _, e := range es {
		if !e.IsDir() && !hasExtension(e.Name(), ext) {
			continue
		}
		srcs = append(srcs, ListSources(filepath.Join(path, e.Name()), ext)...)
	}
	return srcs
}

func hasExtension(name string, ext string) bool {
	if ext == "" {
		return true
	}
	return strings.TrimPrefix(filepath.Ext(name), ".") == strings.TrimPrefix(ext, ".")
}

// Tester runs a compiler over a set of programs. It checks their syntax, or compiles them
// when Compile is set. A failing program does not stop the others.
type Tester struct {
	Compiler compiler.Compiler
	Sources  []*SourceWithMetadata
	Compile  bool
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, src := range t.Sources {
		rs = append(rs, t.run(src))
	}
	return rs
}

func (t *Tester) run(src *SourceWithMetadata) (r *TestResult) {
	r = &TestResult{
		SourcePath: src.FilePath,
	}
	if src.Error != nil {
		r.Error = src.Error
		return r
	}
	defer func() {
		if v := recover(); v != nil {
			r.Error = fmt.Errorf("an unexpected error occurred: %v:\n%v", v, string(debug.Stack()))
		}
	}()
	if t.Compile {
		r.Error = t.Compiler.CompileProgram(src.Text)
	} else {
		r.Error = t.Compiler.CheckProgram(src.Text)
	}
	return r
}

// Failed reports whether any result is a failure.
func Failed(rs []*TestResult) bool {
	for _, r := range rs {
		if r.Error != nil {
			return true
		}
	}
	return false
}
