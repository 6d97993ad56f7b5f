package main

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/refkit/graph"
	"github.com/joshuapare/refkit/internal/preview"
)

// session binds script names to handles of one graph.
type session struct {
	g      *graph.Graph
	strong map[string]*graph.StrongRef
	weak   map[string]graph.WeakRef
}

func newSession(g *graph.Graph) *session {
	return &session{
		g:      g,
		strong: make(map[string]*graph.StrongRef),
		weak:   make(map[string]graph.WeakRef),
	}
}

func (s *session) exec(st step) Result {
	res := Result{Line: st.Line, Op: st.Verb}
	if len(st.Args) > 0 {
		res.Name = st.Args[0]
	}
	if err := s.apply(st, &res); err != nil {
		res.Error = err.Error()
	}
	return res
}

func (s *session) apply(st step, res *Result) error {
	switch st.Verb {
	case "alloc":
		size, err := strconv.Atoi(st.Args[1])
		if err != nil {
			return fmt.Errorf("bad size %q", st.Args[1])
		}
		var dep *graph.StrongRef
		if name, ok := st.Opts["dep"]; ok {
			if dep, err = s.lookupStrong(name); err != nil {
				return err
			}
		}
		ref, err := s.g.Alloc(nil, size, dep)
		if err != nil {
			return err
		}
		s.strong[st.Args[0]] = ref
		setRef(res, ref)

	case "acquire":
		ref, err := s.lookupStrong(st.Args[0])
		if err != nil {
			return err
		}
		if ref.Released() {
			return fmt.Errorf("%q has been released", st.Args[0])
		}
		got, err := s.g.Alloc(ref.Bytes(), 0, nil)
		if err != nil {
			return err
		}
		setRef(res, got)

	case "write":
		ref, err := s.lookupStrong(st.Args[0])
		if err != nil {
			return err
		}
		if ref.Released() {
			return fmt.Errorf("%q has been released", st.Args[0])
		}
		n := copy(ref.Bytes(), st.Text)
		if n < len(st.Text) {
			return fmt.Errorf("text truncated to %d of %d bytes", n, len(st.Text))
		}
		setRef(res, ref)

	case "downgrade":
		ref, err := s.lookupStrong(st.Args[0])
		if err != nil {
			return err
		}
		w := s.g.Downgrade(ref)
		s.weak[st.Args[1]] = w
		setWeak(res, w)

	case "upgrade":
		w, ok := s.weak[st.Args[0]]
		if !ok {
			return fmt.Errorf("unknown weak reference %q", st.Args[0])
		}
		ref, err := s.g.Upgrade(w)
		if err != nil {
			return err
		}
		s.strong[st.Args[1]] = ref
		setRef(res, ref)

	case "init":
		s.g.Init()

	case "cleanup":
		s.g.Cleanup()

	case "stats":
		stats := s.g.Stats()
		res.Stats = &stats

	case "dump":
		res.Dump = []EntrySnapshot{}
		return s.g.Walk(func(ref *graph.StrongRef) error {
			res.Dump = append(res.Dump, EntrySnapshot{
				ID:      ref.ID(),
				Count:   ref.Count(),
				Len:     ref.Len(),
				Deps:    ref.Dependencies(),
				Preview: preview.Text(ref.Bytes(), runPreviewN),
			})
			return nil
		})

	default:
		return fmt.Errorf("unknown operation %q", st.Verb)
	}
	return nil
}

// lookupStrong returns the handle bound to name. Released handles are still
// returned; the graph decides what they mean.
func (s *session) lookupStrong(name string) (*graph.StrongRef, error) {
	ref, ok := s.strong[name]
	if !ok {
		return nil, fmt.Errorf("unknown strong reference %q", name)
	}
	return ref, nil
}

func setRef(res *Result, ref *graph.StrongRef) {
	id := ref.ID()
	res.ID = &id
	res.Count = ref.Count()
}

func setWeak(res *Result, w graph.WeakRef) {
	valid := w.Valid()
	res.Valid = &valid
	if id, ok := w.ID(); ok {
		res.ID = &id
	}
}
