package view

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

const tabWidth = 4

var statusStyle = tcell.StyleDefault.Reverse(true)

// pager scrolls a list of trigger blocks. The last screen row is the status
// line.
type pager struct {
	lines  []string
	starts []int
	top    int
	height int
}

func newPager(blocks []string) *pager {
	p := &pager{height: 1}
	for _, b := range blocks {
		p.starts = append(p.starts, len(p.lines))
		text := strings.ReplaceAll(b, "\t", strings.Repeat(" ", tabWidth))
		p.lines = append(p.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
		p.lines = append(p.lines, "")
	}
	return p
}

func (p *pager) maxTop() int {
	return max(0, len(p.lines)-p.height)
}

func (p *pager) scrollTo(top int) {
	p.top = min(max(top, 0), p.maxTop())
}

// current returns the index of the trigger at the top of the view.
func (p *pager) current() int {
	i := sort.SearchInts(p.starts, p.top+1)
	return max(i-1, 0)
}

func (p *pager) nextTrigger() {
	i := sort.SearchInts(p.starts, p.top+1)
	if i < len(p.starts) {
		p.scrollTo(p.starts[i])
	}
}

func (p *pager) prevTrigger() {
	i := sort.SearchInts(p.starts, p.top)
	if i > 0 {
		p.scrollTo(p.starts[i-1])
	}
}

// handle applies one key and reports whether the pager should close.
func (p *pager) handle(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyDown, tcell.KeyEnter:
		p.scrollTo(p.top + 1)
	case tcell.KeyUp:
		p.scrollTo(p.top - 1)
	case tcell.KeyPgDn:
		p.scrollTo(p.top + p.height)
	case tcell.KeyPgUp:
		p.scrollTo(p.top - p.height)
	case tcell.KeyHome:
		p.scrollTo(0)
	case tcell.KeyEnd:
		p.scrollTo(p.maxTop())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			p.scrollTo(p.top + 1)
		case 'k':
			p.scrollTo(p.top - 1)
		case ' ':
			p.scrollTo(p.top + p.height)
		case 'n':
			p.nextTrigger()
		case 'p':
			p.prevTrigger()
		case 'g':
			p.scrollTo(0)
		case 'G':
			p.scrollTo(p.maxTop())
		}
	}
	return false
}

func (p *pager) resize(rows int) {
	p.height = max(rows-1, 1)
	p.scrollTo(p.top)
}

func (p *pager) status() string {
	if len(p.lines) == 0 {
		return "no triggers  (q to quit)"
	}
	last := min(p.top+p.height, len(p.lines))
	return fmt.Sprintf("trigger %d/%d  lines %d-%d of %d  (q to quit)",
		p.current()+1, len(p.starts), p.top+1, last, len(p.lines))
}

func (p *pager) draw(screen tcell.Screen) {
	screen.Clear()
	width, _ := screen.Size()
	for row := 0; row < p.height && p.top+row < len(p.lines); row++ {
		drawText(screen, row, width, p.lines[p.top+row], tcell.StyleDefault)
	}
	drawText(screen, p.height, width, p.status(), statusStyle)
	screen.Show()
}

func drawText(screen tcell.Screen, row, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width && style != tcell.StyleDefault; col++ {
		screen.SetContent(col, row, ' ', nil, style)
	}
}

// run draws and handles events until a quit key, a closed screen or a
// canceled context.
func (p *pager) run(ctx context.Context, screen tcell.Screen) error {
	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	_, rows := screen.Size()
	p.resize(rows)
	p.draw(screen)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			_, rows := ev.Size()
			p.resize(rows)
			screen.Sync()
		case *tcell.EventKey:
			if p.handle(ev) {
				return nil
			}
		}
		p.draw(screen)
	}
}
