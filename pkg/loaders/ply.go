package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// PLYData contains the triangle data read from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Normals  []core.Vec3 // Per-vertex normals, nil if the file has none
	Faces    []int       // Triangle indices, 3 per triangle
}

// TriangleCount returns the number of triangles after fan triangulation
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// plyProperty is one property line of an element in the header
type plyProperty struct {
	Name      string
	Type      string
	IsList    bool
	CountType string // For list properties, the type of the length prefix
}

type plyElement struct {
	Name       string
	Count      int
	Properties []plyProperty
}

// plyHeader is the parsed header of a PLY file
type plyHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Elements []plyElement
}

// LoadPLY loads a PLY file in ASCII or binary form
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads vertex positions, optional normals and faces. Polygons with
// more than three vertices are split into triangle fans; other elements and
// properties are skipped.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1<<20)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = newASCIIValueReader(reader)
	case "binary_little_endian":
		values = &binaryValueReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.Name, err)
		}
	}

	for _, index := range data.Faces {
		if index < 0 || index >= len(data.Vertices) {
			return nil, fmt.Errorf("face index %d out of range for %d vertices", index, len(data.Vertices))
		}
	}
	return data, nil
}

func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unterminated header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("missing format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Properties = append(current.Properties, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		return plyProperty{IsList: true, CountType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	if len(parts) < 2 || parts[0] == "list" {
		return plyProperty{}, fmt.Errorf("invalid property definition: %q", strings.Join(parts, " "))
	}
	if plyTypeSize(parts[0]) == 0 {
		return plyProperty{}, fmt.Errorf("unknown property type %q", parts[0])
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func readVertices(values plyValueReader, element plyElement, data *PLYData) error {
	index := map[string]int{}
	for i, prop := range element.Properties {
		if !prop.IsList {
			index[prop.Name] = i
		}
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("vertex element has no %q property", name)
		}
	}
	_, hasNX := index["nx"]
	_, hasNY := index["ny"]
	_, hasNZ := index["nz"]
	hasNormals := hasNX && hasNY && hasNZ

	data.Vertices = make([]core.Vec3, 0, element.Count)
	if hasNormals {
		data.Normals = make([]core.Vec3, 0, element.Count)
	}

	row := make([]float64, len(element.Properties))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return err
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = value
		}

		data.Vertices = append(data.Vertices, core.NewVec3(row[index["x"]], row[index["y"]], row[index["z"]]))
		if hasNormals {
			data.Normals = append(data.Normals, core.NewVec3(row[index["nx"]], row[index["ny"]], row[index["nz"]]))
		}
	}
	return nil
}

func readFaces(values plyValueReader, element plyElement, data *PLYData) error {
	data.Faces = make([]int, 0, element.Count*3)

	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Properties {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				continue
			}

			count, err := values.read(prop.CountType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			if count < 3 {
				return fmt.Errorf("face %d has %d vertices", f, int(count))
			}

			polygon := make([]int, int(count))
			for i := range polygon {
				index, err := values.read(prop.Type)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				polygon[i] = int(index)
			}
			for i := 1; i+1 < len(polygon); i++ {
				data.Faces = append(data.Faces, polygon[0], polygon[i], polygon[i+1])
			}
		}
	}
	return nil
}

func skipElement(values plyValueReader, element plyElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values plyValueReader, prop plyProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values plyValueReader, prop plyProperty) error {
	count, err := values.read(prop.CountType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyTypeSize returns the size in bytes of a scalar type, or 0 if unknown
func plyTypeSize(typ string) int {
	switch typ {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

// plyValueReader reads one scalar of the given PLY type as float64
type plyValueReader interface {
	read(typ string) (float64, error)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) read(typ string) (float64, error) {
	size := plyTypeSize(typ)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %q", typ)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, err
	}

	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func newASCIIValueReader(r io.Reader) *asciiValueReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &asciiValueReader{scanner: scanner}
}

func (a *asciiValueReader) read(typ string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", typ, a.scanner.Text())
	}
	return value, nil
}
