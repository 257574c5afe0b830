package renderer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// CheckShaderDir compiles every .vert and .frag file in dir, each on its
// own. It returns the compile failures in file name order; err is only set
// if the directory or a file could not be read or a shader object could not
// be created.
func (r *Renderer) CheckShaderDir(dir string) (failures []*ShaderError, err error) {
	return r.CheckShaderFS(os.DirFS(dir), ".")
}

// CheckShaderFS is like CheckShaderDir for the directory dir of fsys.
func (r *Renderer) CheckShaderFS(fsys fs.FS, dir string) (failures []*ShaderError, err error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	// fs.ReadDir sorts by file name.
	for _, e := range entries {
		kind, ok := ShaderKindOf(e.Name())
		if e.IsDir() || !ok {
			continue
		}
		name := path.Join(dir, e.Name())
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return failures, err
		}
		src := ShaderSource{Name: e.Name(), Source: string(content), Kind: kind}
		err = r.ExecGL(func(gl GL) error {
			st, err := compile(gl, src)
			if err != nil {
				return err
			}
			gl.DeleteShader(st)
			return nil
		})
		var se *ShaderError
		switch {
		case errors.As(err, &se):
			r.log.Error("shader compilation failed", "name", se.Name, "log", se.Log)
			failures = append(failures, se)
		case err != nil:
			return failures, fmt.Errorf("%s: %w", name, err)
		default:
			r.log.Debug("shader compiled", "name", src.Name)
		}
	}
	return failures, nil
}
