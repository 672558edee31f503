package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/opd-ai/go-dwmstatus/internal/logging"
)

// D-Bus coordinates of the freedesktop notification service.
const (
	BusName    = "org.freedesktop.Notifications"
	ObjectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	Interface  = "org.freedesktop.Notifications"
)

// specVersion is the Desktop Notifications protocol version implemented.
const specVersion = "1.2"

// closeReasonByCall is the NotificationClosed reason for CloseNotification.
const closeReasonByCall uint32 = 3

// DefaultTimeout is used for notifications that request the server default.
const DefaultTimeout = 5 * time.Second

// ErrNameTaken is returned by Start when another notification daemon
// already owns the service name.
var ErrNameTaken = errors.New("notification service name already owned")

// Listener delivers notification events to a callback until ctx is done.
// The callback is never invoked concurrently with itself.
type Listener interface {
	Start(ctx context.Context, callback func(Event)) error
}

// ServerInfo is reported by GetServerInformation.
type ServerInfo struct {
	Name    string
	Vendor  string
	Version string
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// DefaultTimeout replaces the -1 and 0 expire timeouts.
	// Zero means DefaultTimeout.
	DefaultTimeout time.Duration
	// MaxTimeout caps requested timeouts. Zero means no cap.
	MaxTimeout time.Duration
	// Info is returned to clients asking for server information.
	Info ServerInfo
	// Logger receives connection and delivery messages. Nil disables logging.
	Logger logging.Logger
}

// Server is a passive org.freedesktop.Notifications implementation on the
// session bus. It accepts Notify calls and forwards them as Events.
type Server struct {
	opts    ServerOptions
	connect func() (*dbus.Conn, error)

	mu   sync.Mutex
	conn *dbus.Conn
}

// Verify interface implementation at compile time.
var _ Listener = (*Server)(nil)

// NewServer creates a Server connecting to the session bus.
func NewServer(opts ServerOptions) *Server {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Server{
		opts:    opts,
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
	}
}

// Start connects to the session bus, exports the notification object and
// claims the service name. Notifications are delivered from godbus's
// dispatch goroutines until ctx is done or Close is called.
func (s *Server) Start(ctx context.Context, callback func(Event)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return fmt.Errorf("notification server already started")
	}

	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}

	h := newHandler(callback, s.opts)
	h.emit = func(member string, values ...any) error {
		return conn.Emit(ObjectPath, Interface+"."+member, values...)
	}

	if err := conn.Export(h, ObjectPath, Interface); err != nil {
		conn.Close()
		return fmt.Errorf("export %s: %w", Interface, err)
	}
	if err := conn.Export(introspect.NewIntrospectable(h.node()), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return ErrNameTaken
	}

	s.conn = conn
	s.opts.Logger.Info("notification server started", "name", BusName)

	go func() {
		<-ctx.Done()
		s.Close()
	}()
	return nil
}

// Close releases the bus connection. Safe to call multiple times.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// ResolveTimeout converts a D-Bus expire_timeout into a display duration.
// Negative values ask for the server default and zero asks for a
// notification that never expires; both map to def because a status line
// cannot be held indefinitely. limit, when positive, caps the result.
func ResolveTimeout(expireTimeout int32, def, limit time.Duration) time.Duration {
	d := def
	if expireTimeout > 0 {
		d = time.Duration(expireTimeout) * time.Millisecond
	}
	if limit > 0 && d > limit {
		d = limit
	}
	return d
}

// handler is the exported D-Bus object. Only its exported methods are
// visible on the bus, so it carries no lifecycle methods.
type handler struct {
	mu       sync.Mutex
	nextID   atomic.Uint32
	callback func(Event)
	opts     ServerOptions
	emit     func(member string, values ...any) error
}

func newHandler(callback func(Event), opts ServerOptions) *handler {
	return &handler{callback: callback, opts: opts}
}

// Notify implements org.freedesktop.Notifications.Notify.
func (h *handler) Notify(appName string, replacesID uint32, appIcon, summary, body string,
	actions []string, hints map[string]dbus.Variant, expireTimeout int32) (uint32, *dbus.Error) {
	id := replacesID
	if id == 0 {
		id = h.nextID.Add(1)
	}

	ev := Event{
		ID:      id,
		AppName: appName,
		Summary: summary,
		Body:    body,
		Timeout: ResolveTimeout(expireTimeout, h.opts.DefaultTimeout, h.opts.MaxTimeout),
	}
	h.opts.Logger.Debug("notification received", "id", id, "app", appName, "timeout", ev.Timeout)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.callback != nil {
		h.callback(ev)
	}
	return id, nil
}

// GetCapabilities implements org.freedesktop.Notifications.GetCapabilities.
// Only the summary is shown, so no optional capability is advertised.
func (h *handler) GetCapabilities() ([]string, *dbus.Error) {
	return []string{}, nil
}

// GetServerInformation implements org.freedesktop.Notifications.GetServerInformation.
func (h *handler) GetServerInformation() (string, string, string, string, *dbus.Error) {
	info := h.opts.Info
	return info.Name, info.Vendor, info.Version, specVersion, nil
}

// CloseNotification implements org.freedesktop.Notifications.CloseNotification.
// Displayed notifications expire on their own; the call only acknowledges
// the close with the NotificationClosed signal.
func (h *handler) CloseNotification(id uint32) *dbus.Error {
	if h.emit != nil {
		if err := h.emit("NotificationClosed", id, closeReasonByCall); err != nil {
			h.opts.Logger.Debug("emit NotificationClosed failed", "id", id, "err", err)
		}
	}
	return nil
}

// node describes the exported object for introspection.
func (h *handler) node() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: introspect.Methods(h),
				Signals: []introspect.Signal{
					{
						Name: "NotificationClosed",
						Args: []introspect.Arg{
							{Name: "id", Type: "u"},
							{Name: "reason", Type: "u"},
						},
					},
				},
			},
		},
	}
}
