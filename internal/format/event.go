// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"context"
	"log/slog"
)

// EventKind identifies an advisory notification emitted by a detector.
type EventKind int

const (
	EventHeaderFound EventKind = iota
	EventFooterNotFound
	EventRunAccepted
	EventRunRejected
)

func (k EventKind) String() string {
	switch k {
	case EventHeaderFound:
		return "header-found"
	case EventFooterNotFound:
		return "footer-not-found"
	case EventRunAccepted:
		return "run-accepted"
	case EventRunRejected:
		return "run-rejected"
	default:
		return "unknown"
	}
}

// Event is a diagnostic about a detection attempt. Events are advisory:
// ignoring them never changes what the scan produces.
type Event struct {
	Kind   EventKind
	Ext    string
	Offset int
	Length int // run length for run events, zero otherwise
}

type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// NopObserver discards every event.
var NopObserver Observer = nopObserver{}

// SlogObserver forwards events to a structured logger.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) Observe(e Event) {
	level := slog.LevelDebug
	switch e.Kind {
	case EventRunAccepted:
		level = slog.LevelInfo
	case EventFooterNotFound:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("ext", e.Ext),
		slog.Int("offset", e.Offset),
	}
	if e.Kind == EventRunAccepted || e.Kind == EventRunRejected {
		attrs = append(attrs, slog.Int("length", e.Length))
	}
	o.Logger.LogAttrs(context.Background(), level, e.Kind.String(), attrs...)
}
