package models

import "maps"

// SeedSource marks records that came from the built-in fallback table rather
// than a live fetch.
const SeedSource = "seed"

// UnknownProvider is used for models missing from the provider table.
const UnknownProvider = "Unknown"

// ScoreRecord represents the accepted GPQA Diamond score for one model.
// Fields are declared in JSON key order so the encoded store has sorted keys.
type ScoreRecord struct {
	AsOf     string  `json:"as_of"`
	Model    string  `json:"model"`
	Provider string  `json:"provider"`
	Score    float64 `json:"score"`
	Source   string  `json:"source"`
}

// Store maps model name to its current record. It is persisted as a single
// JSON object.
type Store map[string]ScoreRecord

// Clone returns an independent copy. A nil store clones to an empty one.
func (s Store) Clone() Store {
	if s == nil {
		return Store{}
	}
	return maps.Clone(s)
}

// Records returns the records in no particular order
func (s Store) Records() []ScoreRecord {
	records := make([]ScoreRecord, 0, len(s))
	for _, r := range s {
		records = append(records, r)
	}
	return records
}

// Equal reports whether both stores hold exactly the same records.
func (s Store) Equal(other Store) bool {
	return maps.Equal(s, other)
}
