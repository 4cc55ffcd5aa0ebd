// Package camera provides frame sources for the booth. A Provider opens a
// Stream; the stream hands out the latest frame on demand.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
	"time"
)

var (
	// ErrUnavailable is returned when no camera can be acquired
	ErrUnavailable = errors.New("camera unavailable")
	// ErrNoFrames is returned when a source holds nothing to show
	ErrNoFrames = errors.New("no frames available")
	// ErrClosed is returned by a stream after Close
	ErrClosed = errors.New("stream closed")
	// ErrUnknownProvider is returned for an unregistered provider name
	ErrUnknownProvider = errors.New("unknown camera provider")
)

// Facing is the requested camera direction
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Request describes the preferred stream
type Request struct {
	Facing Facing
	Width  int
	Height int
}

// DefaultRequest asks for the front camera at the ideal booth resolution
func DefaultRequest() Request {
	return Request{Facing: FacingUser, Width: 1280, Height: 720}
}

// Provider acquires camera streams
type Provider interface {
	Name() string
	Open(ctx context.Context, req Request) (Stream, error)
}

// Stream is an open camera
type Stream interface {
	// Frame returns the most recent frame. Callers must not modify it.
	Frame() (image.Image, error)
	// Size returns the stream resolution
	Size() (int, int)
	Close() error
}

// Options configures the built-in providers
type Options struct {
	// Directory holds still images for the directory provider
	Directory string
	// Interval is how long the directory provider shows each image
	Interval time.Duration
	// Reason is the failure reported by the fail provider
	Reason string
}

type factory func(opts Options) Provider

var providers = map[string]factory{
	"synthetic": func(Options) Provider { return NewSynthetic() },
	"directory": func(opts Options) Provider { return NewDirectory(opts.Directory, opts.Interval) },
	"fail":      func(opts Options) Provider { return NewFailing(opts.Reason) },
}

// New creates the named provider
func New(name string, opts Options) (Provider, error) {
	f, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
	return f(opts), nil
}

// Names lists the registered providers
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(req Request) Request {
	def := DefaultRequest()
	if req.Width <= 0 {
		req.Width = def.Width
	}
	if req.Height <= 0 {
		req.Height = def.Height
	}
	if req.Facing == "" {
		req.Facing = def.Facing
	}
	return req
}
