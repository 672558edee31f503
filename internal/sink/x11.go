package sink

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11 sets the WM_NAME property of the root window, which dwm renders as
// its status text. The connection is opened once and reused.
type X11 struct {
	mu       sync.Mutex
	conn     *xgb.Conn
	root     xproto.Window
	textType xproto.Atom
}

// NewX11 connects to the given X display. An empty display uses $DISPLAY.
func NewX11(display string) (*X11, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}

	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("X display %q has no screens", display)
	}

	x := &X11{
		conn:     conn,
		root:     setup.Roots[0].Root,
		textType: xproto.AtomString,
	}

	// Glyphs need UTF-8; plain STRING is Latin-1 only.
	if atom, err := x.internAtom("UTF8_STRING"); err == nil {
		x.textType = atom
	}
	return x, nil
}

// Display replaces the root window name with text.
func (x *X11) Display(text string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.conn == nil {
		return fmt.Errorf("X connection closed")
	}

	data := []byte(text)
	err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, x.root,
		xproto.AtomWmName, x.textType, 8, uint32(len(data)), data).Check()
	if err != nil {
		return fmt.Errorf("set root window name: %w", err)
	}
	return nil
}

// Close releases the X11 connection.
func (x *X11) Close() {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.conn != nil {
		x.conn.Close()
		x.conn = nil
	}
}

// internAtom retrieves an X11 atom by name, creating it if needed.
func (x *X11) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(x.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
