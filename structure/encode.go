package structure

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// blockVersion is the block_palette entry version stamp written alongside
// each palette entry.
const blockVersion = 17959425

// PaletteEntry is one deduplicated block descriptor. The palette is
// append-only; an entry's index is the position of its first occurrence.
type PaletteEntry struct {
	Name   string
	States map[string]any
}

// Encoded is the palette-compressed form of a World: a bounded box walked in
// a fixed order into a flat index array, plus the ordered palette. Primary
// holds one palette index (or -1 for absent cells) per box cell; Secondary
// is the all-empty second layer the target format expects.
type Encoded struct {
	Width, Height, Depth int
	Origin               [3]int
	Primary              []int32
	Secondary            []int32
	Palette              []PaletteEntry
}

// InternalConsistencyError reports a produced index array whose length does
// not match the computed box volume. This guarantees a corrupt output and is
// never tolerated.
type InternalConsistencyError struct {
	Got, Want int
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("structure: index array length %d != volume %d", e.Got, e.Want)
}

// Encode walks the world's bounding box in Y-outer, then Z, then X order —
// the decoder iterates the same way, and the index array carries no
// coordinate metadata of its own. namespace is prefixed onto block ids
// given without one; pass "" for the default.
func (w *World) Encode(namespace string) (*Encoded, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	min, max, ok := w.Bounds()
	if !ok {
		return nil, fmt.Errorf("structure: nothing to encode")
	}

	enc := &Encoded{
		Width:  max[0] - min[0] + 1,
		Height: max[1] - min[1] + 1,
		Depth:  max[2] - min[2] + 1,
		Origin: min,
	}
	volume := enc.Width * enc.Height * enc.Depth
	enc.Primary = make([]int32, 0, volume)
	enc.Secondary = make([]int32, 0, volume)

	indexByKey := make(map[string]int32)
	for y := min[1]; y <= max[1]; y++ {
		for z := min[2]; z <= max[2]; z++ {
			for x := min[0]; x <= max[0]; x++ {
				cell, populated := w.cells[[3]int{x, y, z}]
				if !populated {
					enc.Primary = append(enc.Primary, -1)
					enc.Secondary = append(enc.Secondary, -1)
					continue
				}
				name := canonicalName(cell.Name, namespace)
				key := paletteKey(name, cell.States)
				idx, seen := indexByKey[key]
				if !seen {
					idx = int32(len(enc.Palette))
					indexByKey[key] = idx
					enc.Palette = append(enc.Palette, PaletteEntry{Name: name, States: cell.States})
				}
				enc.Primary = append(enc.Primary, idx)
				enc.Secondary = append(enc.Secondary, -1)
			}
		}
	}

	if len(enc.Primary) != volume {
		return nil, &InternalConsistencyError{Got: len(enc.Primary), Want: volume}
	}
	return enc, nil
}

// canonicalName prefixes the implicit namespace onto ids given without one.
func canonicalName(name, namespace string) string {
	if strings.ContainsRune(name, ':') {
		return name
	}
	return namespace + ":" + name
}

// paletteKey builds the dedup key: the JSON serialization of the canonical
// id and the key-sorted state entries, so insertion order of the state map
// never splits a palette entry.
func paletteKey(name string, states map[string]any) string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([][2]any, 0, len(states))
	for _, k := range keys {
		entries = append(entries, [2]any{k, states[k]})
	}
	raw, _ := json.Marshal([]any{name, entries})
	return string(raw)
}

// Document lays the encoded form out as the value tree the tag writer
// consumes: format_version, size, the two block_indices layers, the
// palette, and the world origin.
func (e *Encoded) Document() map[string]any {
	palette := make([]any, 0, len(e.Palette))
	for _, entry := range e.Palette {
		states := make(map[string]any, len(entry.States))
		for k, v := range entry.States {
			states[k] = v
		}
		palette = append(palette, map[string]any{
			"name":    entry.Name,
			"states":  states,
			"version": int32(blockVersion),
		})
	}

	primary := make([]any, len(e.Primary))
	for i, v := range e.Primary {
		primary[i] = v
	}
	secondary := make([]any, len(e.Secondary))
	for i, v := range e.Secondary {
		secondary[i] = v
	}

	return map[string]any{
		"format_version": int32(1),
		"size":           []any{int32(e.Width), int32(e.Height), int32(e.Depth)},
		"structure": map[string]any{
			"block_indices": []any{primary, secondary},
			"entities":      []any{},
			"palette": map[string]any{
				"default": map[string]any{
					"block_palette":       palette,
					"block_position_data": map[string]any{},
				},
			},
		},
		"structure_world_origin": []any{
			int32(e.Origin[0]), int32(e.Origin[1]), int32(e.Origin[2]),
		},
	}
}
