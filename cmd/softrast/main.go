// softrast - software 3D rasterizer with a terminal front end.
// Renders OBJ and GLB meshes with depth-tested, perspective-correct
// rasterization done entirely on the CPU.
//
// Controls:
//
//	1           - Wireframe with vertex dots
//	2           - Wireframe only
//	3           - Solid filled
//	4           - Filled plus wireframe
//	5           - Textured
//	6           - Textured plus wireframe
//	B           - Toggle backface culling
//	O / P       - Orthographic / perspective projection
//	W/A/S/D     - Translate mesh in XY
//	Mouse drag  - Orbit camera around the mesh
//	Scroll      - Scale mesh
//	Space       - Pause
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/chewxy/math32"

	"github.com/softrast/softrast/pkg/math3d"
	"github.com/softrast/softrast/pkg/models"
	"github.com/softrast/softrast/pkg/render"
)

var (
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG)")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softrast - terminal software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softrast [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  1-6         - Render mode (wire, wire+dots, solid, solid+wire, textured, textured+wire)\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle backface culling\n")
		fmt.Fprintf(os.Stderr, "  O/P         - Orthographic / perspective projection\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move mesh\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Scale mesh\n")
		fmt.Fprintf(os.Stderr, "  Space       - Pause\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadModel loads the mesh (and possibly an embedded texture) from path,
// falling back to the built-in cube when no path is given.
func loadModel(path string) (*models.Mesh, image.Image, error) {
	if path == "" {
		return models.NewCubeMesh(0xFFF28C28), nil, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return models.LoadGLBWithTexture(path)
	case ".obj":
		mesh, err := models.LoadOBJ(path)
		return mesh, nil, err
	default:
		return nil, nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	background := render.RGB(bgR, bgG, bgB)

	mesh, embedded, err := loadModel(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	var texture *render.Texture
	if *texturePath != "" {
		texture, err = render.LoadTexture(*texturePath)
		if err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
	} else if embedded != nil {
		texture = render.TextureFromImage(embedded)
	}
	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	// Normalize the model so its largest dimension spans 2 units, then push
	// it into the visible volume.
	size := mesh.Size()
	maxDim := math32.Max(size.X, math32.Max(size.Y, size.Z))
	baseScale := float32(1)
	if maxDim > 0 {
		baseScale = 2 / maxDim
	}
	mesh.Scale = math3d.V3(baseScale, baseScale, baseScale)
	mesh.Translation = mesh.Center().Scale(-baseScale)
	mesh.Translation.Z += 8

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Mouse tracking (any-event + SGR extended mode).
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	termRenderer := render.NewTerminalRenderer(term, cols, rows)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	renderer := render.New(fbWidth, fbHeight, render.Options{
		FOV:   math32.Pi / 2,
		ZNear: 1,
		ZFar:  300,
	})
	renderer.Light = render.NewLight(math3d.V3(0, 0, 1))
	renderer.Camera.Position = math3d.Zero3()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Wheel zoom runs through a critically damped spring so scale changes
	// land smoothly instead of stepping.
	scaleSpring := harmonica.NewSpring(harmonica.FPS(*targetFPS), 8.0, 1.0)
	scaleTarget := float64(baseScale)
	scaleNow := float64(baseScale)
	scaleVel := 0.0

	paused := false
	mouseDown := false
	var lastMouseX, lastMouseY int
	var dt float32

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(cols, rows)
				termRenderer = render.NewTerminalRenderer(term, cols, rows)
				fbWidth, fbHeight = termRenderer.FramebufferSize()

				next := render.New(fbWidth, fbHeight, render.Options{
					FOV:   math32.Pi / 2,
					ZNear: 1,
					ZFar:  300,
				})
				next.Mode = renderer.Mode
				next.Fill = renderer.Fill
				next.Cull = renderer.Cull
				next.Light = renderer.Light
				next.Camera = renderer.Camera
				next.SetProjection(renderer.Projection())
				renderer = next

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("1"):
					renderer.Mode = render.ModeWireVertex
				case ev.MatchString("2"):
					renderer.Mode = render.ModeWire
				case ev.MatchString("3"):
					renderer.Mode = render.ModeSolid
				case ev.MatchString("4"):
					renderer.Mode = render.ModeSolidWire
				case ev.MatchString("5"):
					renderer.Mode = render.ModeTextured
				case ev.MatchString("6"):
					renderer.Mode = render.ModeTexturedWire
				case ev.MatchString("b"):
					renderer.Cull = !renderer.Cull
				case ev.MatchString("o"):
					renderer.SetProjection(render.ProjOrthographic)
				case ev.MatchString("p"):
					renderer.SetProjection(render.ProjPerspective)
				case ev.MatchString("w", "up"):
					mesh.Translation.Y += 6 * dt
				case ev.MatchString("s", "down"):
					mesh.Translation.Y -= 6 * dt
				case ev.MatchString("a", "left"):
					mesh.Translation.X -= 6 * dt
				case ev.MatchString("d", "right"):
					mesh.Translation.X += 6 * dt
				case ev.MatchString("space"):
					paused = !paused
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					renderer.Camera.OrbitAround(mesh.Translation, float32(dx)*0.01, float32(dy)*0.01)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					scaleTarget += 0.06
				case uv.MouseWheelDown:
					scaleTarget -= 0.06
					if scaleTarget < 0.05 {
						scaleTarget = 0.05
					}
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()
	hud := newHUD(mesh.Name, mesh.FaceCount())

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt = float32(now.Sub(lastFrame).Seconds())
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		if !paused {
			mesh.Rotation.Y += dt

			scaleNow, scaleVel = scaleSpring.Update(scaleNow, scaleVel, scaleTarget)
			s := float32(scaleNow)
			mesh.Scale = math3d.V3(s, s, s)

			view := renderer.Camera.LookAtView(mesh.Translation)

			renderer.BeginFrame(background)
			renderer.DrawMesh(mesh, view, texture)

			termRenderer.Render(renderer.Framebuffer())
			if err := termRenderer.Flush(); err != nil {
				cleanup()
				return fmt.Errorf("flush: %w", err)
			}

			hud.updateFPS()
			hud.render(cols, rows, renderer)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// hud is a minimal status overlay drawn with raw escapes on top of the
// rendered frame.
type hud struct {
	name      string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(name string, polyCount int) *hud {
	return &hud{name: name, polyCount: polyCount, fpsTime: time.Now()}
}

func (h *hud) updateFPS() {
	h.fpsFrames++
	if elapsed := time.Since(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) render(width, height int, r *render.Renderer) {
	const (
		reset   = "\x1b[0m"
		bgBlack = "\x1b[40m"
		fgGreen = "\x1b[92m"
		fgWhite = "\x1b[97m"
		fgCyan  = "\x1b[96m"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + fmt.Sprintf("%s%s %.0f FPS %s", bgBlack, fgGreen, h.fps, reset))

	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s %s %s", bgBlack, fgWhite, h.name, reset))

	proj := "persp"
	if r.Projection() == render.ProjOrthographic {
		proj = "ortho"
	}
	cull := "cull"
	if !r.Cull {
		cull = "no-cull"
	}
	status := fmt.Sprintf("%s%s %d tris  %s  %s %s", bgBlack, fgCyan, h.polyCount, proj, cull, reset)
	statusCol := max(width-28, 1)
	fmt.Print(moveTo(1, statusCol) + status)
	_ = height
}
