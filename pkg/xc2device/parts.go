// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2device

import (
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed parts.yaml
var partsYAML []byte

type partEntry struct {
	Speeds   []string `yaml:"speeds"`
	Packages []string `yaml:"packages"`
}

var (
	partsOnce  sync.Once
	partsTable map[string]partEntry
)

func loadParts() map[string]partEntry {
	partsOnce.Do(func() {
		var raw map[string]partEntry
		if err := yaml.Unmarshal(partsYAML, &raw); err != nil {
			panic(fmt.Sprintf("xc2device: embedded parts.yaml is invalid: %v", err))
		}
		partsTable = raw
	})
	return partsTable
}

// IsCompatible reports whether speed and pkg are a valid combination
// for device, per the embedded parts table.
func IsCompatible(device Device, speed Speed, pkg Package) bool {
	entry, ok := loadParts()[device.String()]
	if !ok {
		return false
	}
	return slices.Contains(entry.Speeds, string(speed)) && slices.Contains(entry.Packages, string(pkg))
}

// SpeedsFor returns the known speed grades for device, sorted.
func SpeedsFor(device Device) []string {
	entry := loadParts()[device.String()]
	out := slices.Clone(entry.Speeds)
	slices.Sort(out)
	return out
}

// PackagesFor returns the known packages for device, sorted.
func PackagesFor(device Device) []string {
	entry := loadParts()[device.String()]
	out := slices.Clone(entry.Packages)
	slices.Sort(out)
	return out
}
