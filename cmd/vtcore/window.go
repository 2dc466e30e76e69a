package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	defaultWindowWidth  = 820
	defaultWindowHeight = 520
)

// window wraps a GLFW window with its OpenGL context, adapted from the
// teacher's src/window package down to the one GLFW surface this core
// actually drives: a single resizable, double-buffered GL 4.1 core-profile
// window tagged with the instance's resource name for the window manager.
type window struct {
	glfw *glfw.Window
}

// newWindow creates the GLFW window and makes its GL context current on
// the calling (locked) thread.
func newWindow(resourceName string) (*window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	if resourceName == "" {
		resourceName = "vtcore"
	}
	glfw.WindowHintString(glfw.X11ClassName, resourceName)
	glfw.WindowHintString(glfw.X11InstanceName, resourceName)

	glfwWin, err := glfw.CreateWindow(defaultWindowWidth, defaultWindowHeight, "vtcore", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	glfwWin.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfwWin.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	glfw.SwapInterval(1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &window{glfw: glfwWin}, nil
}

func (w *window) ShouldClose() bool              { return w.glfw.ShouldClose() }
func (w *window) SwapBuffers()                   { w.glfw.SwapBuffers() }
func (w *window) GetFramebufferSize() (int, int) { return w.glfw.GetFramebufferSize() }

func (w *window) SetKeyCallback(cb glfw.KeyCallback)     { w.glfw.SetKeyCallback(cb) }
func (w *window) SetCharCallback(cb glfw.CharCallback)   { w.glfw.SetCharCallback(cb) }
func (w *window) SetFramebufferSizeCallback(cb glfw.FramebufferSizeCallback) {
	w.glfw.SetFramebufferSizeCallback(cb)
}

// Destroy releases the GLFW window and terminates GLFW.
func (w *window) Destroy() {
	w.glfw.Destroy()
	glfw.Terminate()
}
