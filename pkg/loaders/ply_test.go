package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

var squareVertices = []core.Vec3{
	core.NewVec3(0, 0, 0),
	core.NewVec3(1, 0, 0),
	core.NewVec3(1, 1, 0),
	core.NewVec3(0, 1, 0),
}

// binarySquarePLY encodes a unit square as two triangles
func binarySquarePLY(t *testing.T, order binary.ByteOrder, includeNormals bool) []byte {
	t.Helper()
	var buf bytes.Buffer

	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}
	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("comment unit square\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	for _, v := range squareVertices {
		for _, c := range []float32{float32(v.X), float32(v.Y), float32(v.Z)} {
			if err := binary.Write(&buf, order, c); err != nil {
				t.Fatal(err)
			}
		}
		if includeNormals {
			if err := binary.Write(&buf, order, [3]float32{0, 0, 1}); err != nil {
				t.Fatal(err)
			}
		}
		buf.WriteByte(200)
	}

	for _, face := range [][3]int32{{0, 1, 2}, {0, 2, 3}} {
		buf.WriteByte(3)
		if err := binary.Write(&buf, order, face); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestReadPLY_Binary(t *testing.T) {
	tests := []struct {
		name           string
		order          binary.ByteOrder
		includeNormals bool
	}{
		{"little endian", binary.LittleEndian, false},
		{"little endian with normals", binary.LittleEndian, true},
		{"big endian with normals", binary.BigEndian, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadPLY(bytes.NewReader(binarySquarePLY(t, tt.order, tt.includeNormals)))
			if err != nil {
				t.Fatalf("ReadPLY: %v", err)
			}

			if len(data.Vertices) != 4 {
				t.Fatalf("expected 4 vertices, got %d", len(data.Vertices))
			}
			for i, expected := range squareVertices {
				if !data.Vertices[i].Equals(expected) {
					t.Errorf("vertex %d: expected %v, got %v", i, expected, data.Vertices[i])
				}
			}

			wantFaces := []int{0, 1, 2, 0, 2, 3}
			if len(data.Faces) != len(wantFaces) {
				t.Fatalf("expected faces %v, got %v", wantFaces, data.Faces)
			}
			for i := range wantFaces {
				if data.Faces[i] != wantFaces[i] {
					t.Errorf("face index %d: expected %d, got %d", i, wantFaces[i], data.Faces[i])
				}
			}

			if tt.includeNormals {
				if len(data.Normals) != 4 || !data.Normals[2].Equals(core.NewVec3(0, 0, 1)) {
					t.Errorf("unexpected normals %v", data.Normals)
				}
			} else if data.Normals != nil {
				t.Errorf("expected no normals, got %v", data.Normals)
			}
		})
	}
}

func TestReadPLY_ASCIIQuadFan(t *testing.T) {
	input := strings.Join([]string{
		"ply",
		"format ascii 1.0",
		"element vertex 4",
		"property double x",
		"property double y",
		"property double z",
		"element face 1",
		"property list uchar uint vertex_index",
		"element edge 1",
		"property int vertex1",
		"property int vertex2",
		"end_header",
		"0 0 0",
		"1 0 0",
		"1 1 0",
		"0 1 0",
		"4 0 1 2 3",
		"0 1",
	}, "\n")

	data, err := ReadPLY(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadPLY: %v", err)
	}
	if data.TriangleCount() != 2 {
		t.Fatalf("expected quad split into 2 triangles, got %d", data.TriangleCount())
	}
	if data.Faces[3] != 0 || data.Faces[4] != 2 || data.Faces[5] != 3 {
		t.Errorf("unexpected fan triangulation %v", data.Faces)
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"unterminated header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"unsupported format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"missing position", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\n0\n"},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"degenerate face", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadPLY_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.ply")
	if err := os.WriteFile(path, binarySquarePLY(t, binary.LittleEndian, false), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if data.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", data.TriangleCount())
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("expected error for missing file")
	}
}
