package commands

import (
	"context"
	"fmt"
	"regexp"
)

// Request carries the comment a command was issued in.
type Request struct {
	IssueUrl string
	Body     string
}

type Handler func(ctx context.Context, req Request) error

type command struct {
	pattern *regexp.Regexp
	handler Handler
}

// Registry maps comment bodies addressed to the bot onto handlers. Patterns
// are matched in registration order against the start of the comment.
type Registry struct {
	handle   string
	commands []command
}

func NewRegistry(handle string) *Registry {
	return &Registry{handle: handle}
}

// Register binds a command verb to a handler. The verb is matched right
// after the bot's mention, e.g. "@conda-grayskull show requirements".
func (r *Registry) Register(verb string, handler Handler) {
	pattern := regexp.MustCompile(fmt.Sprintf(`^@%s\s+%s`, regexp.QuoteMeta(r.handle), verb))
	r.commands = append(r.commands, command{pattern: pattern, handler: handler})
}

// Dispatch runs the first handler whose pattern matches the comment body.
// It reports whether any command matched.
func (r *Registry) Dispatch(ctx context.Context, req Request) (bool, error) {
	for _, cmd := range r.commands {
		if cmd.pattern.MatchString(req.Body) {
			return true, cmd.handler(ctx, req)
		}
	}
	return false, nil
}
