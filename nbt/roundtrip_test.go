package nbt

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// The writer and reader default to different byte orders on purpose. With
// the order matched explicitly, decode(encode(tree)) must reproduce the
// same logical compound for every shape the writer supports.
func TestWriteReadRoundTrip(t *testing.T) {
	root := map[string]any{
		"format_version": int32(1),
		"size":           []any{int32(3), int32(1), int32(1)},
		"structure": map[string]any{
			"block_indices": []any{
				[]any{int32(0), int32(1), int32(0)},
				[]any{int32(-1), int32(-1), int32(-1)},
			},
			"entities": []any{},
			"palette": map[string]any{
				"default": map[string]any{
					"block_palette": []any{
						map[string]any{
							"name":    "minecraft:stone",
							"states":  map[string]any{},
							"version": int32(17959425),
						},
						map[string]any{
							"name":    "minecraft:air",
							"states":  map[string]any{},
							"version": int32(17959425),
						},
					},
					"block_position_data": map[string]any{},
				},
			},
		},
		"structure_world_origin": []any{int32(0), int32(0), int32(0)},
		"waterlogged":            true,
	}

	buf, err := Marshal(root, 256)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := NewReaderOrder(buf, binary.LittleEndian).ReadRoot()
	if err != nil {
		t.Fatalf("ReadRoot: %v", err)
	}

	want := map[string]Tag{
		"format_version": Int{Value: 1},
		"size": List{ElementKind: KindInt, Elements: []Tag{
			Int{Value: 3}, Int{Value: 1}, Int{Value: 1},
		}},
		"structure": Compound{Tags: map[string]Tag{
			"block_indices": List{ElementKind: KindList, Elements: []Tag{
				List{ElementKind: KindInt, Elements: []Tag{
					Int{Value: 0}, Int{Value: 1}, Int{Value: 0},
				}},
				List{ElementKind: KindInt, Elements: []Tag{
					Int{Value: -1}, Int{Value: -1}, Int{Value: -1},
				}},
			}},
			"entities": List{ElementKind: KindEnd, Elements: []Tag{}},
			"palette": Compound{Tags: map[string]Tag{
				"default": Compound{Tags: map[string]Tag{
					"block_palette": List{ElementKind: KindCompound, Elements: []Tag{
						Compound{Tags: map[string]Tag{
							"name":    String{Value: "minecraft:stone"},
							"states":  Compound{Tags: map[string]Tag{}},
							"version": Int{Value: 17959425},
						}},
						Compound{Tags: map[string]Tag{
							"name":    String{Value: "minecraft:air"},
							"states":  Compound{Tags: map[string]Tag{}},
							"version": Int{Value: 17959425},
						}},
					}},
					"block_position_data": Compound{Tags: map[string]Tag{}},
				}},
			}},
		}},
		"structure_world_origin": List{ElementKind: KindInt, Elements: []Tag{
			Int{Value: 0}, Int{Value: 0}, Int{Value: 0},
		}},
		"waterlogged": Byte{Value: 1},
	}

	if diff := cmp.Diff(want, got.Tags); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalTrimsToWrittenLength(t *testing.T) {
	buf, err := Marshal(map[string]any{"k": int32(1)}, 16)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// kind + empty name + (kind + name len + 'k' + int32) + end
	if len(buf) != 12 {
		t.Fatalf("marshalled %d bytes, want 12", len(buf))
	}
}
