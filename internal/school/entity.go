// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// School entity: identity plus a read-only attribute record.

package school

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Attribute groups of a consolidated school record.
const (
	GroupBasicInfo   = "basic_info"
	GroupLocation    = "location"
	GroupAcademic    = "academic_performance"
	GroupReviews     = "reviews_reputation"
	GroupFacilities  = "facilities"
	GroupSupport     = "student_support"
	GroupEnvironment = "environment"
	GroupMetadata    = "metadata"
)

var (
	ErrNoIdentifier = errors.New("school record has no readable id")
	ErrNotObject    = errors.New("school record is not a JSON object")
)

// Entity is an immutable school record. Callers must not modify the record
// returned by Record.
type Entity struct {
	id      string
	name    string
	version string
	record  Record
}

// New builds an entity from a decoded record. The version marker identifies
// the data snapshot; when empty, metadata.last_updated is used, falling back to
// a content hash of the record.
func New(rec map[string]any, version string) (*Entity, error) {
	if rec == nil {
		return nil, ErrNotObject
	}
	r := Record(rec)
	id, state := r.String("id")
	if state != FieldPresent || strings.TrimSpace(id) == "" {
		return nil, ErrNoIdentifier
	}
	name, state := r.String(GroupBasicInfo, "name")
	if state != FieldPresent {
		name = id
	}
	if version == "" {
		if updated, st := r.String(GroupMetadata, "last_updated"); st == FieldPresent {
			version = updated
		} else {
			version = contentHash(rec)
		}
	}
	return &Entity{id: id, name: name, version: version, record: r}, nil
}

// Decode parses one JSON school document. An empty version is replaced by a
// hash of the raw bytes.
func Decode(data []byte, version string) (*Entity, error) {
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if version == "" {
		version = hashBytes(data)
	}
	return New(rec, version)
}

func (e *Entity) ID() string      { return e.id }
func (e *Entity) Name() string    { return e.name }
func (e *Entity) Version() string { return e.version }
func (e *Entity) Record() Record  { return e.record }

func contentHash(rec map[string]any) string {
	// encoding/json sorts map keys, so the encoding is canonical.
	b, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	return hashBytes(b)
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
