package skill

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type CanonicalType string

const (
	TypeTeach CanonicalType = "teach"
	TypeLearn CanonicalType = "learn"
)

var ErrInvalidSkillType = errors.New("invalid skill type")

// typeAliases is the only place legacy labels are accepted.
var typeAliases = map[string]CanonicalType{
	"teach": TypeTeach,
	"offer": TypeTeach,
	"learn": TypeLearn,
	"need":  TypeLearn,
}

func Normalize(raw string) (CanonicalType, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidSkillType
	}
	return t, nil
}

// Aliases returns every stored label that resolves to t, sorted. Repositories
// use it to match legacy rows in SQL without repeating the alias table.
func Aliases(t CanonicalType) []string {
	out := make([]string, 0, 2)
	for label, c := range typeAliases {
		if c == t {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

type dedupeKey struct {
	userID  uuid.UUID
	skillID uuid.UUID
	typ     CanonicalType
}

// Deduplicate collapses records sharing (user, skill, canonical type) into the
// earliest-created one, ties going to the lowest record id. Tags of collapsed
// rows are merged. The survivor's Type is rewritten to its canonical value.
// Records with an unrecognized type are dropped; they cannot be produced by
// the write path.
func Deduplicate(records []Record) []Record {
	sorted := make([]Record, 0, len(records))
	for _, r := range records {
		if _, err := Normalize(r.Type); err != nil {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return olderThan(sorted[i], sorted[j])
	})

	index := make(map[dedupeKey]int, len(sorted))
	out := make([]Record, 0, len(sorted))
	for _, r := range sorted {
		t, _ := Normalize(r.Type)
		k := dedupeKey{userID: r.UserID, skillID: r.SkillID, typ: t}
		if i, ok := index[k]; ok {
			out[i].Tags = mergeTags(out[i].Tags, r.Tags)
			continue
		}
		r.Type = string(t)
		r.Tags = mergeTags(nil, r.Tags)
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

// Duplicates returns the ids of rows Deduplicate would discard.
func Duplicates(records []Record) []uuid.UUID {
	kept := make(map[uuid.UUID]struct{})
	for _, r := range Deduplicate(records) {
		kept[r.ID] = struct{}{}
	}
	out := make([]uuid.UUID, 0)
	for _, r := range records {
		if _, err := Normalize(r.Type); err != nil {
			continue
		}
		if _, ok := kept[r.ID]; !ok {
			out = append(out, r.ID)
		}
	}
	return out
}

func ResolveCapabilities(userID uuid.UUID, records []Record) Capabilities {
	var c Capabilities
	for _, r := range records {
		if r.UserID != userID {
			continue
		}
		t, err := Normalize(r.Type)
		if err != nil {
			continue
		}
		switch t {
		case TypeTeach:
			c.CanTeach = true
		case TypeLearn:
			c.CanLearn = true
		}
	}
	return c
}

// CanTeachSkill reports whether the user holds a teach record for exactly skillID.
func CanTeachSkill(userID uuid.UUID, records []Record, skillID uuid.UUID) bool {
	for _, r := range records {
		if r.UserID != userID || r.SkillID != skillID {
			continue
		}
		if t, err := Normalize(r.Type); err == nil && t == TypeTeach {
			return true
		}
	}
	return false
}

// RefsOfType returns the distinct skills of one canonical type held by userID,
// ordered by name then id.
func RefsOfType(userID uuid.UUID, records []Record, t CanonicalType) []Ref {
	seen := make(map[uuid.UUID]struct{})
	out := make([]Ref, 0)
	for _, r := range records {
		if r.UserID != userID {
			continue
		}
		rt, err := Normalize(r.Type)
		if err != nil || rt != t {
			continue
		}
		if _, ok := seen[r.SkillID]; ok {
			continue
		}
		seen[r.SkillID] = struct{}{}
		out = append(out, Ref{ID: r.SkillID, Name: r.SkillName})
	}
	SortRefs(out)
	return out
}

func SortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return bytes.Compare(refs[i].ID[:], refs[j].ID[:]) < 0
	})
}

func olderThan(a, b Record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func mergeTags(dst, src []string) []string {
	set := make(map[string]struct{}, len(dst)+len(src))
	for _, t := range dst {
		set[t] = struct{}{}
	}
	for _, t := range src {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
