package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/xqm32/guyubot/pkg/logger"
)

// Message is one inbound chat message.
type Message struct {
	Text      string
	Reference string
	CallerID  string
}

type Result struct {
	Matched bool
	Command string
	Reply   string
	Status  int
	Err     error
}

type Dispatching interface {
	Dispatch(ctx context.Context, msg Message) Result
}

type DispatchFunc func(ctx context.Context, msg Message) Result

func (f DispatchFunc) Dispatch(ctx context.Context, msg Message) Result {
	return f(ctx, msg)
}

type Dispatcher struct {
	reg *Registry
}

func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Dispatch matches msg, runs the handler and maps the outcome to a reply
// and an HTTP status. It never returns a partial reply.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Result {
	def, rest, err := d.reg.Match(msg.Text)
	if err != nil {
		return Result{Status: http.StatusNotFound, Reply: err.Error(), Err: err}
	}

	res := Result{Matched: true, Command: def.Name}
	if def.Handler == nil {
		res.Err = fmt.Errorf("command %q has no handler", def.Name)
		res.Status = http.StatusInternalServerError
		res.Reply = res.Err.Error()
		return res
	}

	reply, err := invoke(ctx, def, Request{
		Command:   def.Name,
		Text:      rest,
		Reference: msg.Reference,
		CallerID:  msg.CallerID,
	})
	switch {
	case err == nil:
		res.Status = http.StatusOK
		res.Reply = reply
	case IsPrecondition(err):
		res.Status = http.StatusOK
		res.Reply = "error: " + err.Error()
		res.Err = err
	default:
		res.Status = http.StatusInternalServerError
		res.Reply = err.Error()
		res.Err = err
	}
	return res
}

func invoke(ctx context.Context, def Definition, req Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("commands", "Handler panicked", map[string]any{
				"command": def.Name,
				"panic":   fmt.Sprint(r),
				"stack":   string(debug.Stack()),
			})
			reply = ""
			err = fmt.Errorf("command %q panicked: %v", def.Name, r)
		}
	}()
	return def.Handler(ctx, req)
}

// IsNoMatch reports whether a result failed because nothing matched.
func (r Result) IsNoMatch() bool {
	return errors.Is(r.Err, ErrNoMatch)
}
