package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer runs an embedded NATS server and holds a client connection to
// it for the rest of the process.
type NatsServer struct {
	ns   *server.Server
	conn *nats.Conn

	ready chan struct{}
	subs  []pendingSub

	startupTimeout time.Duration
	host           string
	port           int
}

// pendingSub is a subscription requested before the server started.
type pendingSub struct {
	subject string
	handler nats.MsgHandler
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn = conn

	for _, p := range n.subs {
		if _, err := conn.Subscribe(p.subject, p.handler); err != nil {
			n.shutdown()
			return fmt.Errorf("subscribing to %s: %w", p.subject, err)
		}
	}
	n.subs = nil
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.shutdown()

	return nil
}

func (n *NatsServer) shutdown() {
	n.conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()
}

// Ready is closed once the server accepts connections and the client
// connection is open.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// ClientURL is the address clients connect to.
func (n *NatsServer) ClientURL() string {
	return n.ns.ClientURL()
}

// Handle registers a request/reply handler on subject, which may contain
// wildcards. The handler receives the concrete subject and the request body
// and its return value is sent as the reply. Handlers must be registered
// before Start; they are subscribed once the server is up.
func (n *NatsServer) Handle(subject string, handler func(subject string, data []byte) []byte) {
	h := func(msg *nats.Msg) {
		reply := handler(msg.Subject, msg.Data)
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			slog.Warn("responding to request", "subject", msg.Subject, "error", err)
		}
	}

	n.subs = append(n.subs, pendingSub{subject: subject, handler: h})
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	select {
	case <-n.ready:
	default:
		return fmt.Errorf("nats server not started")
	}
	return n.conn.Publish(subject, data)
}
