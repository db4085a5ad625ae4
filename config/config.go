// Package config loads the optional sibling configuration file that
// accompanies a translation job: a document with the same basename as
// the shader being translated, carrying back-end-specific remaps that
// don't belong in shader source itself (resource binding overrides,
// mostly). It is consulted by the CLI driver, never by the core.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaderlift/shaderlift/hlsl"
)

// ResourceBinding identifies a resource by its WGSL/SPIR-V group and
// binding decoration, the coordinate every front-end agrees on.
type ResourceBinding struct {
	Group   uint32
	Binding uint32
}

// Remap is a single back-end-specific override for one resource.
// Exactly one of Buffer, Texture, Sampler is expected to be set; which
// one applies depends on the resource's own kind in the IR.
type Remap struct {
	Space   *uint8  `yaml:"space,omitempty"`
	Buffer  *uint32 `yaml:"buffer,omitempty"`
	Texture *uint32 `yaml:"texture,omitempty"`
	Sampler *uint32 `yaml:"sampler,omitempty"`
	Mutable bool    `yaml:"mutable,omitempty"`
}

type bindingEntry struct {
	Group   uint32 `yaml:"group"`
	Binding uint32 `yaml:"binding"`
	Remap   `yaml:",inline"`
}

// document is the on-disk shape of the sibling file.
type document struct {
	Bindings []bindingEntry `yaml:"bindings"`
}

// Config is the parsed, indexed form of a sibling configuration file.
type Config struct {
	Remaps map[ResourceBinding]Remap
}

// SiblingPath returns the configuration path that accompanies
// outputPath: same directory and basename, extension replaced with
// ".yaml" (standing in for the upstream project's RON dialect, which
// Go has no equivalent decoder for).
func SiblingPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	return base + ".yaml"
}

// Load reads and parses a sibling configuration file. A missing file
// is not an error: it returns an empty Config, since the remap is
// optional and most translations don't need one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{Remaps: map[ResourceBinding]Remap{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	remaps := make(map[ResourceBinding]Remap, len(doc.Bindings))
	for _, b := range doc.Bindings {
		remaps[ResourceBinding{Group: b.Group, Binding: b.Binding}] = b.Remap
	}
	return &Config{Remaps: remaps}, nil
}

// HLSLBindingMap projects the generic remap table onto the register
// targets the HLSL back-end expects. A resource with no matching
// entry is simply absent from the returned map; the back-end decides
// whether FakeMissingBindings covers it.
func (c *Config) HLSLBindingMap() map[hlsl.ResourceBinding]hlsl.BindTarget {
	out := make(map[hlsl.ResourceBinding]hlsl.BindTarget, len(c.Remaps))
	for rb, r := range c.Remaps {
		var space uint8
		if r.Space != nil {
			space = *r.Space
		}
		var register uint32
		switch {
		case r.Buffer != nil:
			register = *r.Buffer
		case r.Texture != nil:
			register = *r.Texture
		case r.Sampler != nil:
			register = *r.Sampler
		default:
			continue
		}
		out[hlsl.ResourceBinding{Group: rb.Group, Binding: rb.Binding}] = hlsl.BindTarget{
			Space:    space,
			Register: register,
		}
	}
	return out
}
