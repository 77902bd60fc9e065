package main

import (
	"fmt"
	"slices"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/logger"
)

// handle is a named live allocation.
type handle struct {
	Ref  alloc.Ref
	Size int
}

// session replays script operations against one allocator.
type session struct {
	t       target
	live    map[string]handle
	order   []string
	noSpace int
}

func newSession(t target) *session {
	return &session{t: t, live: make(map[string]handle)}
}

func (s *session) run(ops []op) error {
	for _, o := range ops {
		if err := s.step(o); err != nil {
			return fmt.Errorf("line %d: %s: %w", o.Line, o.Verb, err)
		}
	}
	return nil
}

func (s *session) step(o op) error {
	switch o.Verb {
	case "alloc", "aligned":
		if _, dup := s.live[o.Name]; dup {
			return fmt.Errorf("%q is already allocated", o.Name)
		}
		size := o.Size
		if size < 0 {
			def, ok := s.t.defaultSize()
			if !ok {
				return fmt.Errorf("%s needs a size", s.t.name())
			}
			size = def
		}
		var (
			ref alloc.Ref
			p   []byte
			err error
		)
		if o.Verb == "aligned" {
			ref, p, err = s.t.AllocAligned(size, o.Align)
		} else {
			ref, p, err = s.t.Alloc(size)
		}
		if alloc.IsNoSpace(err) {
			s.noSpace++
			printInfo("%s %s: out of space\n", o.Verb, o.Name)
			return nil
		}
		if err != nil {
			return err
		}
		s.add(o.Name, handle{Ref: ref, Size: len(p)})
		printVerbose("%s %s %d -> 0x%X\n", o.Verb, o.Name, len(p), ref)

	case "free":
		h, err := s.lookup(o.Name)
		if err != nil {
			return err
		}
		if err := s.t.Free(h.Ref); err != nil {
			return err
		}
		s.remove(o.Name)
		printVerbose("free %s (0x%X)\n", o.Name, h.Ref)

	case "realloc":
		h, err := s.lookup(o.Name)
		if err != nil {
			return err
		}
		ref, p, err := s.t.Realloc(h.Ref, h.Size, o.Size)
		if alloc.IsNoSpace(err) {
			s.noSpace++
			printInfo("realloc %s: out of space, 0x%X kept\n", o.Name, h.Ref)
			return nil
		}
		if err != nil {
			return err
		}
		s.live[o.Name] = handle{Ref: ref, Size: len(p)}
		if ref != h.Ref {
			logger.Debug("realloc moved", "name", o.Name, "from", h.Ref, "to", ref)
		}
		printVerbose("realloc %s %d -> 0x%X\n", o.Name, len(p), ref)

	case "fill":
		p, err := s.view(o.Name)
		if err != nil {
			return err
		}
		for i := range p {
			p[i] = o.Value
		}

	case "expect":
		p, err := s.view(o.Name)
		if err != nil {
			return err
		}
		if o.Size >= 0 {
			if o.Size > len(p) {
				return fmt.Errorf("%s holds %d bytes, not %d", o.Name, len(p), o.Size)
			}
			p = p[:o.Size]
		}
		for i, b := range p {
			if b != o.Value {
				return fmt.Errorf("%s[%d] = 0x%02X, want 0x%02X", o.Name, i, b, o.Value)
			}
		}

	case "reset":
		s.t.Reset()
		s.live = make(map[string]handle)
		s.order = nil

	case "save":
		return s.t.save()

	case "restore":
		if err := s.t.restore(); err != nil {
			return err
		}
		for _, name := range slices.Clone(s.order) {
			h := s.live[name]
			if _, ok := s.t.bytes(h.Ref, h.Size); !ok {
				s.remove(name)
			}
		}

	case "check":
		return s.t.check()

	default:
		return fmt.Errorf("unknown operation")
	}
	return nil
}

func (s *session) add(name string, h handle) {
	s.live[name] = h
	s.order = append(s.order, name)
}

func (s *session) remove(name string) {
	delete(s.live, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}

func (s *session) lookup(name string) (handle, error) {
	h, ok := s.live[name]
	if !ok {
		return handle{}, fmt.Errorf("%q is not allocated", name)
	}
	return h, nil
}

func (s *session) view(name string) ([]byte, error) {
	h, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	p, ok := s.t.bytes(h.Ref, h.Size)
	if !ok {
		return nil, fmt.Errorf("%q no longer addresses live memory", name)
	}
	return p, nil
}

// report returns the allocator report with the live handles attached.
func (s *session) report() report {
	r := s.t.report()
	r.NoSpace = s.noSpace
	for _, name := range s.order {
		h := s.live[name]
		r.Live = append(r.Live, liveRow{Name: name, Ref: h.Ref, Size: h.Size})
	}
	return r
}
