// Command shadercheck compiles every vertex and fragment shader in a
// directory and reports the compiler log of each one that fails.
//
// The check needs a display and a GL driver, so it only runs when
// GL_SHADER_CHECK=true; otherwise it exits successfully without doing
// anything. This keeps it usable as a build step on headless machines.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pborman/getopt"

	"github.com/v39engine/v39/assets"
	"github.com/v39engine/v39/config"
	"github.com/v39engine/v39/display"
	"github.com/v39engine/v39/glcore"
	"github.com/v39engine/v39/internal/logging"
	"github.com/v39engine/v39/renderer"
)

const envEnable = "GL_SHADER_CHECK"

func init() {
	runtime.LockOSThread()
}

func main() {
	dir := getopt.StringLong("dir", 'd', "shaders", "directory containing *.vert and *.frag files")
	builtin := getopt.BoolLong("builtin", 'b', "also check the built-in shaders")
	help := getopt.BoolLong("help", 'h', "show this help")
	getopt.Parse()
	if *help {
		getopt.Usage()
		return
	}
	if os.Getenv(envEnable) != "true" {
		fmt.Printf("shader check skipped, set %s=true to enable\n", envEnable)
		return
	}
	os.Exit(run(*dir, *builtin))
}

func run(dir string, builtin bool) int {
	log := logging.Setup()
	props := config.Default()
	props.Title = "shadercheck"
	w, err := display.OpenHidden(props, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer w.Destroy()

	if err := w.MakeCurrent(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	gl, err := glcore.Init()
	w.MakeNotCurrent()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	r, err := renderer.New(w, gl, renderer.Options{Logger: log})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer r.Destroy()

	failures, err := r.CheckShaderDir(dir)
	if err == nil && builtin {
		var more []*renderer.ShaderError
		more, err = r.CheckShaderFS(assets.Data, assets.ShaderDir)
		failures = append(failures, more...)
	}
	for _, f := range failures {
		fmt.Printf("%s:\n%s\n", f.Name, f.Log)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if len(failures) > 0 {
		fmt.Printf("%d shader(s) failed to compile\n", len(failures))
		return 1
	}
	fmt.Println("all shaders compiled")
	return 0
}
