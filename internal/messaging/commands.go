package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pixil98/go-stash/internal/display"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/stash"
)

// Request is the body of a command sent to stash.<name>.<verb>. Count
// defaults to 1 when omitted.
type Request struct {
	Kind        string `json:"kind,omitempty"`
	Count       int    `json:"count,omitempty"`
	FromSlot    int    `json:"from_slot,omitempty"`
	ToInventory string `json:"to_inventory,omitempty"`
	ToSlot      int    `json:"to_slot,omitempty"`
	Slots       int    `json:"slots,omitempty"`
}

func (r Request) count() int {
	if r.Count == 0 {
		return 1
	}
	return r.Count
}

// Response is the reply to a command. Ok is false when the command was
// rejected or only partly applied.
type Response struct {
	Ok      bool     `json:"ok"`
	Count   int      `json:"count,omitempty"`
	Listing string   `json:"listing,omitempty"`
	Names   []string `json:"names,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Router accepts request/reply handlers.
type Router interface {
	Handle(subject string, handler func(subject string, data []byte) []byte)
}

// DefaultMaxCapacity bounds how far grow can take an inventory.
const DefaultMaxCapacity = 1024

// ListSubject answers with the names of every hosted inventory.
const ListSubject = "stash.list"

type verbFunc func(name string, req Request) (Response, error)

// CommandHandler drives the inventories of a stash Manager from requests.
type CommandHandler struct {
	m           *stash.Manager
	verbs       map[string]verbFunc
	maxCapacity int
}

type CommandHandlerOpt func(*CommandHandler)

// WithMaxCapacity sets the largest capacity grow may reach.
func WithMaxCapacity(n int) CommandHandlerOpt {
	return func(h *CommandHandler) {
		h.maxCapacity = n
	}
}

func NewCommandHandler(m *stash.Manager, opts ...CommandHandlerOpt) *CommandHandler {
	h := &CommandHandler{m: m, maxCapacity: DefaultMaxCapacity}
	for _, opt := range opts {
		opt(h)
	}
	h.verbs = map[string]verbFunc{
		"add":      h.add,
		"remove":   h.remove,
		"move":     h.move,
		"grow":     h.grow,
		"shrink":   h.shrink,
		"describe": h.describe,
	}
	return h
}

// Register subscribes one handler per verb, plus the listing.
func (h *CommandHandler) Register(r Router) {
	for verb := range h.verbs {
		r.Handle("stash.*."+verb, h.Serve)
	}
	r.Handle(ListSubject, h.List)
}

// List replies with the sorted names of the hosted inventories.
func (h *CommandHandler) List(_ string, _ []byte) []byte {
	return h.reply(ListSubject, Response{Ok: true, Names: h.m.Names()})
}

// Serve handles a single request. The subject must be stash.<name>.<verb>.
func (h *CommandHandler) Serve(subject string, data []byte) []byte {
	resp, err := h.serve(subject, data)
	if err != nil {
		slog.Debug("command failed", "subject", subject, "error", err)
		resp = Response{Error: err.Error()}
	}
	return h.reply(subject, resp)
}

func (h *CommandHandler) reply(subject string, resp Response) []byte {
	out, err := json.Marshal(resp)
	if err != nil {
		slog.Error("marshalling response", "subject", subject, "error", err)
		return nil
	}
	return out
}

func (h *CommandHandler) serve(subject string, data []byte) (Response, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != "stash" {
		return Response{}, fmt.Errorf("malformed subject %q", subject)
	}
	name, verb := parts[1], parts[2]

	fn, ok := h.verbs[verb]
	if !ok {
		return Response{}, fmt.Errorf("unknown command %q", verb)
	}

	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return Response{}, fmt.Errorf("decoding request: %w", err)
		}
	}

	return fn(name, req)
}

func (h *CommandHandler) add(name string, req Request) (Response, error) {
	n, err := h.m.Add(name, req.Kind, req.count())
	if err != nil {
		return Response{}, err
	}
	return Response{Ok: n == req.count(), Count: n}, nil
}

func (h *CommandHandler) remove(name string, req Request) (Response, error) {
	n, err := h.m.Remove(name, req.Kind, req.count())
	if err != nil {
		return Response{}, err
	}
	return Response{Ok: n == req.count(), Count: n}, nil
}

func (h *CommandHandler) move(name string, req Request) (Response, error) {
	to := req.ToInventory
	if to == "" {
		to = name
	}
	if err := h.m.Move(name, req.FromSlot, to, req.ToSlot, req.count()); err != nil {
		return Response{}, err
	}
	return Response{Ok: true}, nil
}

func (h *CommandHandler) grow(name string, req Request) (Response, error) {
	var resp Response
	err := h.m.Do(name, func(inv *inventory.Inventory) error {
		if req.Slots > h.maxCapacity-inv.Capacity() {
			return fmt.Errorf("capacity may not exceed %d", h.maxCapacity)
		}
		inv.GrowBy(req.Slots)
		resp = Response{Ok: req.Slots > 0, Count: inv.Capacity()}
		return nil
	})
	return resp, err
}

func (h *CommandHandler) shrink(name string, req Request) (Response, error) {
	var resp Response
	err := h.m.Do(name, func(inv *inventory.Inventory) error {
		ok := inv.ShrinkBy(req.Slots)
		resp = Response{Ok: ok, Count: inv.Capacity()}
		return nil
	})
	return resp, err
}

func (h *CommandHandler) describe(name string, _ Request) (Response, error) {
	var resp Response
	err := h.m.Do(name, func(inv *inventory.Inventory) error {
		listing, err := display.RenderInventory(inv)
		if err != nil {
			return err
		}
		resp = Response{Ok: true, Count: inv.Capacity(), Listing: listing}
		return nil
	})
	return resp, err
}
