package command

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Spec describes a catalogued command.
type Spec struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Required    []string            `yaml:"required"`
	Optional    []string            `yaml:"optional"`
	Values      map[string][]string `yaml:"values"`
}

type catalogFile struct {
	Commands []Spec `yaml:"commands"`
}

var (
	catalogOnce  sync.Once
	catalogIndex map[string]Spec
	catalogList  []Spec
	catalogErr   error
)

func loadCatalog() error {
	catalogOnce.Do(func() {
		catalogIndex, catalogList, catalogErr = parseCatalog(catalogYAML)
	})
	return catalogErr
}

func parseCatalog(data []byte) (map[string]Spec, []Spec, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing command catalog: %w", err)
	}

	index := make(map[string]Spec, len(f.Commands))
	for _, s := range f.Commands {
		if _, _, ok := strings.Cut(s.Name, "/"); !ok {
			return nil, nil, fmt.Errorf("command catalog: malformed name %q", s.Name)
		}
		if _, dup := index[s.Name]; dup {
			return nil, nil, fmt.Errorf("command catalog: duplicate entry %q", s.Name)
		}
		index[s.Name] = s
	}

	list := make([]Spec, 0, len(index))
	for _, s := range index {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return index, list, nil
}

// Lookup returns the catalog entry for namespace/verb.
func Lookup(namespace, verb string) (Spec, bool) {
	if loadCatalog() != nil {
		return Spec{}, false
	}
	s, ok := catalogIndex[namespace+"/"+verb]
	return s, ok
}

// Catalog returns all catalogued commands sorted by name.
func Catalog() ([]Spec, error) {
	if err := loadCatalog(); err != nil {
		return nil, err
	}
	return slices.Clone(catalogList), nil
}

// Namespace returns the part of the name before the slash.
func (s Spec) Namespace() string {
	ns, _, _ := strings.Cut(s.Name, "/")
	return ns
}

// Verb returns the part of the name after the slash.
func (s Spec) Verb() string {
	_, verb, _ := strings.Cut(s.Name, "/")
	return verb
}

// Usage renders the request shape, e.g. "heos://player/set_volume?pid=&level=".
func (s Spec) Usage() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(s.Name)
	for i, k := range s.Required {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteString("=")
		if vs, ok := s.Values[k]; ok {
			b.WriteString(strings.Join(vs, "|"))
		}
	}
	for _, k := range s.Optional {
		if len(s.Required) == 0 && k == s.Optional[0] {
			b.WriteString("[?")
		} else {
			b.WriteString("[&")
		}
		b.WriteString(k)
		b.WriteString("=")
		if vs, ok := s.Values[k]; ok {
			b.WriteString(strings.Join(vs, "|"))
		}
		b.WriteString("]")
	}
	return b.String()
}

func (s Spec) check(values map[string]string) error {
	for _, k := range s.Required {
		if values[k] == "" {
			return fmt.Errorf("%w: %s requires parameter %q", ErrInvalidArgument, s.Name, k)
		}
	}
	for k, allowed := range s.Values {
		v, ok := values[k]
		if !ok {
			continue
		}
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("%w: %s parameter %q = %q, want one of %s",
				ErrInvalidArgument, s.Name, k, v, strings.Join(allowed, ", "))
		}
	}
	return nil
}
