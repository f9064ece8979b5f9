// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Block types. The type constrains rendering; block data stays an open
// mapping and is not cross-validated against the type at storage time.
const (
	BlockTypeHero  = "hero"
	BlockTypeText  = "text"
	BlockTypeCards = "cards"
	BlockTypeCTA   = "cta"
	BlockTypeStats = "stats"
	BlockTypeImage = "image"
	BlockTypeFAQ   = "faq"
	BlockTypeTeam  = "team"
)

// ValidBlockType reports whether t is a known block type.
func ValidBlockType(t string) bool {
	switch t {
	case BlockTypeHero, BlockTypeText, BlockTypeCards, BlockTypeCTA,
		BlockTypeStats, BlockTypeImage, BlockTypeFAQ, BlockTypeTeam:
		return true
	}
	return false
}

// Block is one element of a page's per-locale block sequence. The id is
// assigned at creation time and stays stable across edits of Data.
type Block struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// NewBlockID returns a fresh block id derived from the current time.
// Base-36 nanosecond precision keeps ids short while making collisions
// within a single sequence practically impossible.
func NewBlockID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 36)
}

// NewBlock allocates a block of the given type with default empty data.
func NewBlock(blockType string, now time.Time) Block {
	return Block{
		ID:   NewBlockID(now),
		Type: blockType,
		Data: map[string]any{
			"title":   "",
			"content": "",
			"items":   []any{},
		},
	}
}

// BlockList is an ordered block sequence stored as a JSON column.
// Insertion order is the rendering order; there is no sortOrder field.
type BlockList []Block

// Add appends a freshly allocated block and returns it.
func (l *BlockList) Add(blockType string, now time.Time) Block {
	b := NewBlock(blockType, now)
	*l = append(*l, b)
	return b
}

// Update shallow-merges partial data into the block with the given id.
// Unspecified keys are preserved, specified keys are overwritten. A
// missing id is a no-op, not an error.
func (l BlockList) Update(blockID string, partial map[string]any) {
	for i := range l {
		if l[i].ID != blockID {
			continue
		}
		if l[i].Data == nil {
			l[i].Data = make(map[string]any, len(partial))
		}
		for k, v := range partial {
			l[i].Data[k] = v
		}
		return
	}
}

// Remove filters out the block with the given id, preserving the order
// of the rest. A missing id is a no-op.
func (l *BlockList) Remove(blockID string) {
	blocks := *l
	out := blocks[:0]
	for _, b := range blocks {
		if b.ID != blockID {
			out = append(out, b)
		}
	}
	*l = out
}

// Find returns the block with the given id, or nil.
func (l BlockList) Find(blockID string) *Block {
	for i := range l {
		if l[i].ID == blockID {
			return &l[i]
		}
	}
	return nil
}

// Value implements driver.Valuer, serializing the list as JSON.
func (l BlockList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling blocks: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner, deserializing a JSON column.
func (l *BlockList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = BlockList{}
		return nil
	case string:
		if v == "" {
			*l = BlockList{}
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	case []byte:
		if len(v) == 0 {
			*l = BlockList{}
			return nil
		}
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("unsupported blocks column type %T", src)
	}
}
