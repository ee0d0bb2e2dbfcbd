// Package settings provides the terminal panel for the trim preferences.
package settings

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/trimsave/internal/trim"
)

// Store reads and persists boolean settings.
type Store interface {
	GetBool(path string) (bool, error)
	SetBool(path string, value bool) error
}

// Item is one checkbox bound to a setting path.
type Item struct {
	Key   string
	Label string
}

// DefaultItems returns the three trim checkboxes in display order.
func DefaultItems() []Item {
	return []Item{
		{Key: trim.KeyRemoveTrailingWhitespace, Label: "Remove trailing whitespaces"},
		{Key: trim.KeyRemoveTrailingBlankLines, Label: "Remove empty lines at the end of document"},
		{Key: trim.KeyPreserveCursor, Label: "Preserve cursor position"},
	}
}

const (
	title    = "Whitespace remover"
	helpText = "up/down move  space toggle  q quit"

	firstItemRow = 2
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleHelp     = tcell.StyleDefault.Dim(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// refreshEvent asks the event loop to re-read the settings.
type refreshEvent struct {
	tcell.EventTime
}

// Panel shows one checkbox per Item. Toggling persists immediately.
type Panel struct {
	mu sync.Mutex

	screen tcell.Screen
	store  Store
	items  []Item

	values   []bool
	selected int
	status   string
	done     bool
}

// NewPanel creates a panel drawing on screen. The screen must already
// be initialized.
func NewPanel(screen tcell.Screen, store Store) *Panel {
	p := &Panel{
		screen: screen,
		store:  store,
		items:  DefaultItems(),
	}
	p.values = make([]bool, len(p.items))
	p.Refresh()
	return p
}

// Refresh re-reads every value from the store. A setting that cannot
// be read shows as unchecked.
func (p *Panel) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, item := range p.items {
		v, err := p.store.GetBool(item.Key)
		p.values[i] = err == nil && v
	}
}

// NotifyChanged schedules a Refresh on the event loop. It is safe to
// call from any goroutine, such as a config observer.
func (p *Panel) NotifyChanged() {
	ev := &refreshEvent{}
	ev.SetEventNow()
	_ = p.screen.PostEvent(ev) // best-effort; a full queue drops the refresh
}

// Values returns the current checkbox states.
func (p *Panel) Values() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]bool, len(p.values))
	copy(out, p.values)
	return out
}

// Selected returns the index of the highlighted item.
func (p *Panel) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Status returns the last error message shown, if any.
func (p *Panel) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Done reports whether the user closed the panel.
func (p *Panel) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Run draws the panel and processes events until the user quits.
func (p *Panel) Run() {
	for !p.Done() {
		p.Draw()
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		p.HandleEvent(ev)
	}
}

// HandleEvent applies one event and returns false once the panel is
// closed.
func (p *Panel) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *refreshEvent:
		p.Refresh()
	case *tcell.EventResize:
		p.screen.Sync()
	case *tcell.EventKey:
		p.handleKey(e)
	}
	return !p.Done()
}

func (p *Panel) handleKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyUp:
		p.move(-1)
	case tcell.KeyDown, tcell.KeyTab:
		p.move(1)
	case tcell.KeyEnter:
		p.toggle()
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.close()
	case tcell.KeyRune:
		switch e.Rune() {
		case 'k':
			p.move(-1)
		case 'j':
			p.move(1)
		case ' ':
			p.toggle()
		case 'q':
			p.close()
		}
	}
}

func (p *Panel) move(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	if n == 0 {
		return
	}
	p.selected = (p.selected + delta + n) % n
}

// toggle flips the selected checkbox and persists it. On failure the
// checkbox keeps its stored value and the error is shown.
func (p *Panel) toggle() {
	p.mu.Lock()
	if len(p.items) == 0 {
		p.mu.Unlock()
		return
	}
	i := p.selected
	key := p.items[i].Key
	value := !p.values[i]
	p.mu.Unlock()

	// SetBool may notify observers that call NotifyChanged, so the
	// lock is not held across it.
	err := p.store.SetBool(key, value)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = fmt.Sprintf("cannot save %s: %v", key, err)
		return
	}
	p.values[i] = value
	p.status = ""
}

func (p *Panel) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

// Draw renders the panel.
func (p *Panel) Draw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.screen.Clear()
	p.drawText(0, 0, title, styleTitle)

	for i, item := range p.items {
		mark := ' '
		if p.values[i] {
			mark = 'x'
		}
		style := styleDefault
		if i == p.selected {
			style = styleSelected
		}
		p.drawText(0, firstItemRow+i, fmt.Sprintf("[%c] %s", mark, item.Label), style)
	}

	row := firstItemRow + len(p.items) + 1
	p.drawText(0, row, helpText, styleHelp)
	if p.status != "" {
		p.drawText(0, row+1, p.status, styleError)
	}

	p.screen.Show()
}

func (p *Panel) drawText(x, y int, text string, style tcell.Style) {
	width, height := p.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Open runs the panel on a new terminal screen until the user quits.
// subscribe, if non-nil, is called with the panel's change callback
// and returns a function that cancels the subscription.
func Open(store Store, subscribe func(onChange func()) (cancel func())) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	panel := NewPanel(screen, store)
	if subscribe != nil {
		cancel := subscribe(panel.NotifyChanged)
		defer cancel()
	}
	panel.Run()
	return nil
}
