package render

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	blockpkg "github.com/taigrr/pathtrace/pkg/block"
	rtcolor "github.com/taigrr/pathtrace/pkg/color"
	"github.com/taigrr/pathtrace/pkg/imageio"
)

// HUD drives a live terminal preview of an in-progress render: a
// half-block mosaic of the accumulated image so far plus a status
// line, refreshed as tiles complete. Repurposes the teacher's
// Framebuffer.Draw half-block blit (terminal.go) — generalized from a
// fixed Framebuffer to a live snapshot pulled from the renderer's
// output ImageBlock — and the teacher's raw-ANSI HUD.Render idiom
// (cmd/trophy/main.go) for the status line, since ultraviolet itself
// has no text-layout primitives of its own.
type HUD struct {
	term   uv.Terminal
	width  int // terminal columns
	height int // terminal rows
	start  time.Time

	mu     sync.Mutex
	pixels []color.RGBA // width x (height*2) framebuffer-space snapshot
	done   int
	total  int
}

// NewHUD starts an alt-screen terminal session and returns a HUD ready
// to receive progress updates, or nil if the terminal could not be
// started (e.g. stdout is not a TTY) — callers should fall back to
// plain stderr logging in that case.
func NewHUD() (*HUD, error) {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	return &HUD{
		term:   term,
		width:  width,
		height: height,
		start:  time.Now(),
		pixels: make([]color.RGBA, width*(height-1)*2),
	}, nil
}

// Close restores the terminal to its pre-render state.
func (h *HUD) Close() {
	h.term.ExitAltScreen()
	h.term.ShowCursor()
	h.term.Shutdown(context.Background())
}

// Update tonemaps block's current contents into the HUD's framebuffer-
// space pixel snapshot and records tile progress. Safe to call from
// any renderer worker goroutine; the draw loop reads the snapshot
// under the same lock. The accumulated image's resolution rarely
// divides evenly into the terminal's half-block grid, so the
// downscale goes through imageio.ResizeBitmap's bilinear filter rather
// than naive nearest-neighbor indexing, which shimmers as tiles at
// different resolutions complete.
func (h *HUD) Update(b *blockpkg.ImageBlock, done, total int) {
	bitmap := b.ToBitmap()

	fbW, fbH := h.width, (h.height-1)*2
	resized := imageio.ResizeBitmap(bitmap, b.Width, b.Height, fbW, fbH)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.done, h.total = done, total
	copy(h.pixels, resized)
}

// DisplayImage loads a complete bitmap into the HUD's snapshot for a
// one-shot static view — the GUI-mode ".hdr" viewer (spec.md §6: "With
// .exr in GUI mode, the viewer displays it") has no tile progress to
// report, so done/total are fixed at 1/1.
func (h *HUD) DisplayImage(bitmap []rtcolor.RGB, width, height int) {
	fbW, fbH := h.width, (h.height-1)*2
	resized := imageio.ResizeBitmap(bitmap, width, height, fbW, fbH)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.done, h.total = 1, 1
	copy(h.pixels, resized)
}

// WaitForQuit blocks until the user presses Escape, Ctrl+C, or q, or
// ctx is canceled — the same quit-key set the teacher's event loop
// recognizes (cmd/trophy/main.go).
func (h *HUD) WaitForQuit(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.term.Events():
			if !ok {
				return
			}
			if key, isKey := ev.(uv.KeyPressEvent); isKey {
				if key.MatchString("escape", "ctrl+c", "q") {
					return
				}
			}
		}
	}
}

// Draw blits the current snapshot to the terminal and prints a status
// line (elapsed time, tiles done/total, ETA), mirroring the
// FPS/filename/poly-count layout of the teacher's HUD.Render but
// reading from h.pixels' half-block mosaic instead of ANSI text
// alone.
func (h *HUD) Draw() {
	h.mu.Lock()
	pixels := h.pixels
	fbW, fbH := h.width, (h.height-1)*2
	done, total := h.done, h.total
	h.mu.Unlock()

	rows := h.height - 1
	for row := 0; row < rows; row++ {
		topY := row * 2
		botY := topY + 1
		for col := 0; col < fbW && col < h.width; col++ {
			top := pixels[topY*fbW+col]
			var bot color.RGBA
			if botY < fbH {
				bot = pixels[botY*fbW+col]
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(top),
					Bg: rgbaToColor(bot),
				},
			}
			h.term.SetCell(col, row, cell)
		}
	}

	pct := 0.0
	if total > 0 {
		pct = 100 * float64(done) / float64(total)
	}
	elapsed := time.Since(h.start)
	status := fmt.Sprintf(" rendering: %d/%d tiles (%.1f%%), elapsed %s ", done, total, pct, elapsed.Round(time.Second))
	for i, r := range status {
		if i >= h.width {
			break
		}
		h.term.SetCell(i, rows, &uv.Cell{Content: string(r), Width: 1, Style: uv.Style{Fg: ColorWhite, Bg: ColorBlack}})
	}

	h.term.Display()
}

// PlainProgress is the no-terminal fallback: a single stderr line
// rewritten in place, for --no-gui runs or non-TTY output.
func PlainProgress(done, total int, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "\rrendering: %d/%d tiles, elapsed %s", done, total, elapsed.Round(time.Second))
	if done == total {
		fmt.Fprintln(os.Stderr)
	}
}
