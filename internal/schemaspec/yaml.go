// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schemaspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDescriptor is the sidecar schema declaration shape: a
// `*.schema.yaml` file next to the source tree for hosts that keep
// schemas out of Python source entirely.
type yamlDescriptor struct {
	Name       string            `yaml:"name"`
	Columns    []string          `yaml:"columns"`
	Parents    []string          `yaml:"parents"`
	Aliases    map[string]string `yaml:"aliases"`
	AllowExtra *bool             `yaml:"allow_extra_columns"`
}

type yamlFile struct {
	Schemas []yamlDescriptor `yaml:"schemas"`
}

// ParseYAML decodes a `*.schema.yaml` sidecar into Descriptors. Parent
// references here are resolved against the other descriptors in the same
// sidecar file only; a parent declared anywhere else contributes no
// columns (the project index stores each file's schemas separately and
// does not compose them across files either).
func ParseYAML(data []byte) ([]Descriptor, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("schemaspec: parsing yaml sidecar: %w", err)
	}
	byName := make(map[string]yamlDescriptor, len(f.Schemas))
	for _, s := range f.Schemas {
		byName[s.Name] = s
	}
	var out []Descriptor
	for _, s := range f.Schemas {
		out = append(out, linearizeYAML(s, byName, map[string]bool{}))
	}
	return out, nil
}

func linearizeYAML(s yamlDescriptor, byName map[string]yamlDescriptor, visiting map[string]bool) Descriptor {
	desc := Descriptor{
		Name:       s.Name,
		Parents:    s.Parents,
		Aliases:    map[string]string{},
		AllowExtra: true,
		Origin:     "yaml",
	}
	if s.AllowExtra != nil {
		desc.AllowExtra = *s.AllowExtra
	}
	for k, v := range s.Aliases {
		desc.Aliases[k] = v
	}
	var ordered []string
	seen := map[string]bool{}
	add := func(name string) {
		if seen[name] {
			for i, n := range ordered {
				if n == name {
					ordered = append(ordered[:i], ordered[i+1:]...)
					break
				}
			}
		}
		seen[name] = true
		ordered = append(ordered, name)
	}
	if !visiting[s.Name] {
		visiting[s.Name] = true
		for _, p := range s.Parents {
			parent, ok := byName[p]
			if !ok {
				continue
			}
			pd := linearizeYAML(parent, byName, visiting)
			for _, c := range pd.Columns {
				add(c)
			}
		}
	}
	for _, c := range s.Columns {
		add(c)
	}
	desc.Columns = ordered
	return desc
}
