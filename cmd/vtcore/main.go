// Command vtcore is the reference front end: it opens a GLFW/OpenGL window,
// spawns a login shell under a pseudoterminal, and wires the pty pump, the
// VT100/VT52 parser, the screen model and the reference renderer together
// into a running terminal. Decoding window-system key/char events into
// semantic input is this command's job; encoding that input into the wire
// bytes a VT100 expects is keymap's.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/javanhut/vtcore/config"
	"github.com/javanhut/vtcore/keymap"
	"github.com/javanhut/vtcore/parser"
	"github.com/javanhut/vtcore/ptypump"
	"github.com/javanhut/vtcore/render"
	"github.com/javanhut/vtcore/screen"
)

func init() {
	// GLFW must be driven from the thread that called glfw.Init.
	runtime.LockOSThread()
}

const (
	initialCols = 80
	initialRows = 24

	frameInterval    = 16 * time.Millisecond // ~60 FPS, matching the teacher's loop
	cursorBlinkEvery = 500 * time.Millisecond
)

func main() {
	resourceName := flag.String("name", "", "window resource/instance name (overrides RESOURCE_NAME)")
	flag.Parse()

	if *resourceName == "" {
		*resourceName = os.Getenv("RESOURCE_NAME")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("vtcore: load config: %v", err)
	}
	if *resourceName != "" {
		cfg.ResourceName = *resourceName
	}

	scr := screen.New(initialCols, initialRows)

	cmd, err := ptypump.SpawnShell(cfg)
	if err != nil {
		log.Fatalf("vtcore: spawn shell: %v", err)
	}

	term := parser.NewTerminal(scr, nil)
	term.Answerback = cfg.Answerback

	pump, err := ptypump.Start(cmd, initialCols, initialRows, term)
	if err != nil {
		log.Fatalf("vtcore: start pty: %v", err)
	}
	term.Reply = pump
	defer pump.Close()

	win, err := newWindow(cfg.ResourceName)
	if err != nil {
		log.Fatalf("vtcore: create window: %v", err)
	}
	defer win.Destroy()

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("vtcore: init renderer: %v", err)
	}
	defer renderer.Destroy()
	renderer.SetThemeByName(cfg.Theme)

	fbWidth, fbHeight := win.GetFramebufferSize()
	resizeScreen(scr, pump, renderer, fbWidth, fbHeight)

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		resizeScreen(scr, pump, renderer, width, height)
	})

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		if mk, ok := translateKey(key, mods); ok {
			pump.QueueReply(keymap.Encode(mk, &scr.Modes))
		}
	})

	win.SetCharCallback(func(w *glfw.Window, char rune) {
		pump.QueueReply([]byte(string(char)))
	})

	cursorOn := true
	lastBlink := time.Now()

	for !win.ShouldClose() {
		if err := pump.Pump(); err != nil {
			if err == ptypump.ErrChildExited {
				break
			}
			log.Printf("vtcore: pump: %v", err)
			break
		}

		if time.Since(lastBlink) >= cursorBlinkEvery {
			cursorOn = !cursorOn
			lastBlink = time.Now()
		}

		width, height := win.GetFramebufferSize()
		renderer.Render(scr, width, height, cursorOn)

		win.SwapBuffers()
		glfw.PollEvents()

		time.Sleep(frameInterval)
	}
}

// resizeScreen derives the grid size from the renderer's cell metrics,
// reallocates the screen grid to it, and reports it to the child process.
func resizeScreen(scr *screen.Screen, pump *ptypump.Pump, renderer *render.Renderer, width, height int) {
	cols, rows := renderer.CalculateGridSize(width, height)
	scr.Resize(cols, rows)
	pump.Resize(uint16(cols), uint16(rows))
}

// translateKey maps a GLFW key event to keymap's non-printable key set.
// Printable characters arrive through the char callback instead, matching
// GLFW's own split between SetKeyCallback (physical keys) and
// SetCharCallback (composed text).
func translateKey(key glfw.Key, mods glfw.ModifierKey) (keymap.Key, bool) {
	switch key {
	case glfw.KeyEnter, glfw.KeyKPEnter:
		if mods&glfw.ModShift != 0 {
			return keymap.KeyShiftEnter, true
		}
		return keymap.KeyEnter, true
	case glfw.KeyBackspace:
		return keymap.KeyBackspace, true
	case glfw.KeyTab:
		return keymap.KeyTab, true
	case glfw.KeyEscape:
		return keymap.KeyEscape, true
	case glfw.KeyHome:
		return keymap.KeyHome, true
	case glfw.KeyEnd:
		return keymap.KeyEnd, true
	case glfw.KeyInsert:
		return keymap.KeyInsert, true
	case glfw.KeyPageUp:
		return keymap.KeyPageUp, true
	case glfw.KeyPageDown:
		return keymap.KeyPageDown, true
	case glfw.KeyF1:
		return keymap.KeyF1, true
	case glfw.KeyF2:
		return keymap.KeyF2, true
	case glfw.KeyF3:
		return keymap.KeyF3, true
	case glfw.KeyF4:
		return keymap.KeyF4, true
	case glfw.KeyUp:
		return keymap.KeyArrowUp, true
	case glfw.KeyDown:
		return keymap.KeyArrowDown, true
	case glfw.KeyRight:
		return keymap.KeyArrowRight, true
	case glfw.KeyLeft:
		return keymap.KeyArrowLeft, true
	default:
		return 0, false
	}
}
