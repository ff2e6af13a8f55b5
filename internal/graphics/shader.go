package graphics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"graphx/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader is a linked OpenGL program with a uniform location cache
type Shader struct {
	id        uint32
	name      string
	locations map[string]int32
	released  bool
}

// LoadShader reads a single file holding both stages, each introduced by a
// "#shader vertex" or "#shader fragment" line.
func LoadShader(path string) (*Shader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read shader file: %w", err)
	}
	vertex, fragment, err := SplitShaderSource(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewShaderFromSource(filepath.Base(path), vertex, fragment)
}

// NewShaderFromSource compiles and links the given stages
func NewShaderFromSource(name, vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	return &Shader{id: program, name: name, locations: make(map[string]int32)}, nil
}

// SplitShaderSource separates a combined shader file into its two stages
func SplitShaderSource(src string) (vertex, fragment string, err error) {
	var stages [2]strings.Builder
	current := -1
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if fields := strings.Fields(line); len(fields) == 2 && fields[0] == "#shader" {
			switch fields[1] {
			case "vertex":
				current = 0
			case "fragment", "pixel":
				current = 1
			default:
				return "", "", fmt.Errorf("unknown shader stage %q", fields[1])
			}
			continue
		}
		if current >= 0 {
			stages[current].WriteString(line)
			stages[current].WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return "", "", err
	}
	if stages[0].Len() == 0 || stages[1].Len() == 0 {
		return "", "", fmt.Errorf("shader source needs a vertex and a fragment stage")
	}
	return stages[0].String(), stages[1].String(), nil
}

func (s *Shader) ID() uint32   { return s.id }
func (s *Shader) Name() string { return s.name }

// Bind activates the shader program
func (s *Shader) Bind() {
	gl.UseProgram(s.id)
}

func (s *Shader) Unbind() {
	gl.UseProgram(0)
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.id, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

// SetIntArray sets a sampler or int array uniform
func (s *Shader) SetIntArray(name string, values []int32) {
	if len(values) == 0 {
		return
	}
	gl.Uniform1iv(s.location(name), int32(len(values)), &values[0])
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

func (s *Shader) SetVec2i(name string, x, y int32) {
	gl.Uniform2i(s.location(name), x, y)
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(s.location(name), v[0], v[1], v[2])
}

func (s *Shader) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(s.location(name), v[0], v[1], v[2], v[3])
}

func (s *Shader) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(s.location(name), 1, false, &m[0])
}

// SetMat4 sets a 4x4 matrix uniform
func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

// Release deletes the program once
func (s *Shader) Release() {
	if s.released {
		return
	}
	s.released = true
	gl.DeleteProgram(s.id)
}

var _ gpu.Shader = (*Shader)(nil)

// Helper functions
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
