package core

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCategories seeds the registry when no seed file is present.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Entertainment",
	"Utilities",
	"Health",
	"Shopping",
	"Other",
}

// Registry is the fixed set of valid category labels. It is built once and
// never modified afterwards, so it is safe for concurrent use.
type Registry struct {
	labels []string
	index  map[string]struct{}
}

func NewRegistry(labels ...string) *Registry {
	r := &Registry{index: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := r.index[l]; ok {
			continue
		}
		r.index[l] = struct{}{}
		r.labels = append(r.labels, l)
	}
	return r
}

// LoadRegistry reads seed_categories.txt from dir, one label per line.
// Blank lines and lines starting with '#' are skipped.
func LoadRegistry(dir string) *Registry {
	labels := readLines(filepath.Join(dir, "seed_categories.txt"))
	if len(labels) == 0 {
		labels = DefaultCategories
	}
	return NewRegistry(labels...)
}

func (r *Registry) Contains(label string) bool {
	_, ok := r.index[label]
	return ok
}

// Labels returns the labels in registration order.
func (r *Registry) Labels() []string {
	return append([]string(nil), r.labels...)
}

func (r *Registry) Len() int {
	return len(r.labels)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
