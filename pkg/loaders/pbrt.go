package loaders

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// PBRTParam is one typed parameter, e.g. "rgb reflectance" [0.7 0.3 0.1]
type PBRTParam struct {
	Type   string   // "float", "rgb", "point3", "integer", "string", ...
	Values []string // Raw values with string quotes removed
}

// PBRTStatement is a directive with its subtype, bare numeric arguments and
// parameter list
type PBRTStatement struct {
	Type       string    // Directive, e.g. "Shape"
	Subtype    string    // First quoted argument, e.g. "sphere"
	Args       []float64 // Bare numbers, e.g. the nine values of LookAt
	Parameters map[string]PBRTParam
	Line       int // Line the directive starts on
}

// PBRTInstance is a shape or light with the graphics state that was active
// when it was declared
type PBRTInstance struct {
	Statement   PBRTStatement
	Material    int            // Index into PBRTScene.Materials, -1 for none
	AreaLight   *PBRTStatement // Active AreaLightSource, nil for none
	Translation core.Vec3      // Accumulated Translate offsets
}

// PBRTLookAt is the camera placement of a LookAt directive
type PBRTLookAt struct {
	Eye, Target, Up core.Vec3
}

// PBRTScene is the parsed content of a PBRT v4 scene file. Only Translate
// transforms are applied; inside the world block any other transform is an
// error.
type PBRTScene struct {
	LookAt    *PBRTLookAt
	Camera    *PBRTStatement
	Film      *PBRTStatement
	Materials []PBRTStatement
	Shapes    []PBRTInstance
	Lights    []PBRTInstance
}

// graphicsState is the part of the PBRT attribute state that
// AttributeBegin saves and AttributeEnd restores
type graphicsState struct {
	material    int
	areaLight   *PBRTStatement
	translation core.Vec3
}

type pbrtParser struct {
	tokens  []pbrtToken
	pos     int
	scene   *PBRTScene
	state   graphicsState
	stack   []graphicsState
	named   map[string]int
	inWorld bool
}

// LoadPBRT reads a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	if strings.ContainsRune(filename, 0) {
		return nil, fmt.Errorf("invalid scene path %q", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	scene, err := ParsePBRT(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// ParsePBRT parses PBRT scene text. Statements may span lines and comments
// run from # to the end of the line.
func ParsePBRT(r io.Reader) (*PBRTScene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PBRT data: %w", err)
	}

	tokens, err := tokenizePBRT(string(data))
	if err != nil {
		return nil, err
	}

	p := &pbrtParser{
		tokens: tokens,
		scene:  &PBRTScene{},
		state:  graphicsState{material: -1},
		named:  make(map[string]int),
	}
	for p.pos < len(p.tokens) {
		stmt, err := p.nextStatement()
		if err != nil {
			return nil, err
		}
		if err := p.apply(stmt); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", stmt.Line, stmt.Type, err)
		}
	}

	if len(p.stack) > 0 {
		return nil, fmt.Errorf("%d unclosed AttributeBegin", len(p.stack))
	}
	return p.scene, nil
}

// nextStatement consumes a directive and every token up to the next one
func (p *pbrtParser) nextStatement() (PBRTStatement, error) {
	head := p.tokens[p.pos]
	if !head.isDirective() {
		return PBRTStatement{}, fmt.Errorf("line %d: expected a directive, got %q", head.line, head.text)
	}
	p.pos++

	stmt := PBRTStatement{Type: head.text, Parameters: make(map[string]PBRTParam), Line: head.line}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.isDirective() {
			break
		}

		switch {
		case !tok.quoted && tok.text != "[" && tok.text != "]":
			value, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return stmt, fmt.Errorf("line %d: %s: invalid number %q", tok.line, stmt.Type, tok.text)
			}
			stmt.Args = append(stmt.Args, value)
			p.pos++

		case tok.text == "[":
			// A bracketed argument list without a declaration, e.g. Transform [ ... ]
			values, err := p.values()
			if err != nil {
				return stmt, err
			}
			for _, v := range values {
				value, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return stmt, fmt.Errorf("line %d: %s: invalid number %q", tok.line, stmt.Type, v)
				}
				stmt.Args = append(stmt.Args, value)
			}

		case tok.quoted && !strings.Contains(strings.TrimSpace(tok.text), " "):
			if stmt.Subtype != "" || len(stmt.Parameters) > 0 {
				return stmt, fmt.Errorf("line %d: %s: unexpected string %q", tok.line, stmt.Type, tok.text)
			}
			stmt.Subtype = tok.text
			p.pos++

		case tok.quoted:
			fields := strings.Fields(tok.text)
			if len(fields) != 2 {
				return stmt, fmt.Errorf("line %d: %s: malformed parameter declaration %q", tok.line, stmt.Type, tok.text)
			}
			p.pos++
			values, err := p.values()
			if err != nil {
				return stmt, err
			}
			stmt.Parameters[fields[1]] = PBRTParam{Type: fields[0], Values: values}

		default:
			return stmt, fmt.Errorf("line %d: %s: unexpected %q", tok.line, stmt.Type, tok.text)
		}
	}

	return stmt, nil
}

// values reads either a bracketed list or a single value
func (p *pbrtParser) values() ([]string, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of input: missing parameter value")
	}

	tok := p.tokens[p.pos]
	if tok.text != "[" || tok.quoted {
		if tok.isDirective() || tok.text == "]" {
			return nil, fmt.Errorf("line %d: missing parameter value before %q", tok.line, tok.text)
		}
		p.pos++
		return []string{tok.text}, nil
	}

	p.pos++
	var values []string
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.text == "]" && !tok.quoted {
			return values, nil
		}
		values = append(values, tok.text)
	}
	return nil, fmt.Errorf("line %d: unterminated '['", tok.line)
}

// apply updates the scene and graphics state for one statement
func (p *pbrtParser) apply(stmt PBRTStatement) error {
	switch stmt.Type {
	case "LookAt":
		if len(stmt.Args) != 9 {
			return fmt.Errorf("needs 9 values, got %d", len(stmt.Args))
		}
		a := stmt.Args
		p.scene.LookAt = &PBRTLookAt{
			Eye:    core.NewVec3(a[0], a[1], a[2]),
			Target: core.NewVec3(a[3], a[4], a[5]),
			Up:     core.NewVec3(a[6], a[7], a[8]),
		}

	case "Camera":
		p.scene.Camera = &stmt
	case "Film":
		p.scene.Film = &stmt
	case "Sampler", "Integrator", "PixelFilter", "ColorSpace", "Option", "Accelerator", "ReverseOrientation":
		// Rendering options are fixed by the renderer's own settings

	case "WorldBegin":
		p.inWorld = true
		p.state.translation = core.Vec3{}
	case "WorldEnd":
		p.inWorld = false

	case "AttributeBegin", "TransformBegin":
		p.stack = append(p.stack, p.state)
	case "AttributeEnd", "TransformEnd":
		if len(p.stack) == 0 {
			return fmt.Errorf("no matching AttributeBegin")
		}
		p.state = p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

	case "Translate":
		if len(stmt.Args) != 3 {
			return fmt.Errorf("needs 3 values, got %d", len(stmt.Args))
		}
		p.state.translation = p.state.translation.Add(core.NewVec3(stmt.Args[0], stmt.Args[1], stmt.Args[2]))
	case "Rotate", "Scale", "Transform", "ConcatTransform", "CoordinateSystem", "CoordSysTransform":
		if p.inWorld {
			return fmt.Errorf("only Translate is supported inside the world block")
		}

	case "Material":
		p.scene.Materials = append(p.scene.Materials, stmt)
		p.state.material = len(p.scene.Materials) - 1
	case "MakeNamedMaterial":
		name := stmt.Subtype
		if name == "" {
			return fmt.Errorf("missing material name")
		}
		stmt.Subtype = stmt.GetStringParam("type")
		if stmt.Subtype == "" {
			return fmt.Errorf("material %q has no type", name)
		}
		p.scene.Materials = append(p.scene.Materials, stmt)
		p.named[name] = len(p.scene.Materials) - 1
	case "NamedMaterial":
		index, ok := p.named[stmt.Subtype]
		if !ok {
			return fmt.Errorf("unknown material %q", stmt.Subtype)
		}
		p.state.material = index

	case "AreaLightSource":
		light := stmt
		p.state.areaLight = &light
	case "LightSource":
		p.scene.Lights = append(p.scene.Lights, p.instance(stmt))
	case "Shape":
		if !p.inWorld {
			return fmt.Errorf("shape outside the world block")
		}
		p.scene.Shapes = append(p.scene.Shapes, p.instance(stmt))

	default:
		return fmt.Errorf("unsupported directive")
	}
	return nil
}

func (p *pbrtParser) instance(stmt PBRTStatement) PBRTInstance {
	return PBRTInstance{
		Statement:   stmt,
		Material:    p.state.material,
		AreaLight:   p.state.areaLight,
		Translation: p.state.translation,
	}
}

// pbrtToken is a bare word, a quoted string (quotes removed) or a bracket
type pbrtToken struct {
	text   string
	quoted bool
	line   int
}

// isDirective reports whether the token starts a statement. Directives are
// the only bare words that begin with a letter.
func (t pbrtToken) isDirective() bool {
	if t.quoted || t.text == "" {
		return false
	}
	return unicode.IsUpper(rune(t.text[0]))
}

func tokenizePBRT(input string) ([]pbrtToken, error) {
	var tokens []pbrtToken
	line := 1

	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case c == '[' || c == ']':
			tokens = append(tokens, pbrtToken{text: string(c), line: line})
			i++
		case c == '"':
			end := strings.IndexAny(input[i+1:], "\"\n")
			if end < 0 || input[i+1+end] != '"' {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			tokens = append(tokens, pbrtToken{text: input[i+1 : i+1+end], quoted: true, line: line})
			i += end + 2
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\r\n[]\"#", rune(input[i])) {
				i++
			}
			tokens = append(tokens, pbrtToken{text: input[start:i], line: line})
		}
	}
	return tokens, nil
}

// GetFloatParam returns the first value of a float parameter
func (s *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, ok := s.Parameters[name]
	if !ok || len(param.Values) == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// GetFloatsParam returns every value of a numeric parameter
func (s *PBRTStatement) GetFloatsParam(name string) ([]float64, bool) {
	param, ok := s.Parameters[name]
	if !ok {
		return nil, false
	}
	values := make([]float64, len(param.Values))
	for i, v := range param.Values {
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		values[i] = value
	}
	return values, true
}

// GetVec3Param returns an rgb, point3, vector3 or normal parameter. A
// single-valued parameter is broadcast to all three components.
func (s *PBRTStatement) GetVec3Param(name string) (core.Vec3, bool) {
	values, ok := s.GetFloatsParam(name)
	switch {
	case !ok:
		return core.Vec3{}, false
	case len(values) == 1:
		return core.NewVec3(values[0], values[0], values[0]), true
	case len(values) == 3:
		return core.NewVec3(values[0], values[1], values[2]), true
	}
	return core.Vec3{}, false
}

// GetStringParam returns the first value of a string parameter, or ""
func (s *PBRTStatement) GetStringParam(name string) string {
	param, ok := s.Parameters[name]
	if !ok || len(param.Values) == 0 {
		return ""
	}
	return param.Values[0]
}
