package resolve

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for stub loading.
var (
	errStubMissingType = errors.New("resolve: stub entry missing type name")
	errStubAccessors   = errors.New("resolve: stub entry needs exactly two accessors")
)

// stubAccessorCount is the number of accessors a pair-like stub declares.
const stubAccessorCount = 2

// PairStub declares an external pair-like aggregate the file-local resolver
// cannot see, e.g. kotlin.collections.IndexedValue.
type PairStub struct {
	Type      string   `yaml:"type"`
	Accessors []string `yaml:"accessors"`
}

// stubsFile is the on-disk shape of a stubs file. Maps lists extra type
// names to treat as map-like receivers for `.entries` stripping.
type stubsFile struct {
	Pairs []PairStub `yaml:"pairs"`
	Maps  []string   `yaml:"maps"`
}

// LoadStubs reads pair-like aggregate stubs from a YAML file and registers
// them on the resolver.
func (r *FileResolver) LoadStubs(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("resolve: read stubs %s: %w", path, err)
	}

	return r.loadStubData(data)
}

func (r *FileResolver) loadStubData(data []byte) error {
	var file stubsFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("resolve: parse stubs: %w", err)
	}

	for _, stub := range file.Pairs {
		if stub.Type == "" {
			return errStubMissingType
		}

		if len(stub.Accessors) != stubAccessorCount {
			return fmt.Errorf("%w: %s has %d", errStubAccessors, stub.Type, len(stub.Accessors))
		}

		r.AddPairStub(stub.Type, stub.Accessors[0], stub.Accessors[1])
	}

	for _, typeName := range file.Maps {
		if typeName == "" {
			return errStubMissingType
		}

		r.AddMapType(typeName)
	}

	return nil
}
