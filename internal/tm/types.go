// Package tm is the translation memory engine of spec.md §4.D: a two-tier
// store (a row-oriented index for live queries, a columnar archive for
// cold storage) fronted by a cache and a parallel exact/fuzzy/n-gram
// retrieval pipeline.
package tm

import "github.com/tradocflow/tradocflow/internal/tm/tmtypes"

// Unit, LanguagePair, Match, Method, and Stats are aliases onto tmtypes so
// callers of this package keep writing tm.Unit etc., while the storage
// tiers (index/archive/cache) depend on tmtypes directly instead of on
// this package, avoiding an import cycle.
type (
	Unit         = tmtypes.Unit
	LanguagePair = tmtypes.LanguagePair
	Match        = tmtypes.Match
	Method       = tmtypes.Method
	Stats        = tmtypes.Stats
)

const (
	MethodExact = tmtypes.MethodExact
	MethodFuzzy = tmtypes.MethodFuzzy
	MethodNgram = tmtypes.MethodNgram
)
