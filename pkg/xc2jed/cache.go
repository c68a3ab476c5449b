// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2jed

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// tripleCacheSize bounds the number of distinct "N DEVICE ..." header
// strings this package remembers having already validated. A batch CLI
// invocation that converts many files sharing the same device-speed-
// package triple (the common case: one product run's worth of jed
// files) shouldn't re-run ParseTriple's validation on every file.
const tripleCacheSize = 64

// tripleCache is an ARC cache (adaptive between recency and frequency,
// unlike a plain LRU) of raw header strings to their parsed Triple,
// shared by every Decode call in the process.
var tripleCache, _ = lru.NewARC(tripleCacheSize)

func parseTripleCached(raw string) (xc2device.Triple, error) {
	if v, ok := tripleCache.Get(raw); ok {
		return v.(xc2device.Triple), nil
	}
	t, err := xc2device.ParseTriple(raw)
	if err != nil {
		return xc2device.Triple{}, err
	}
	tripleCache.Add(raw, t)
	return t, nil
}
