package tpyparser

import (
	"tpyparser/internal/completion"
	"tpyparser/internal/symbols"
)

// Signature is the parameter list of a callable candidate.
type Signature = symbols.Signature

// Completion is one autocomplete candidate ready for presentation.
type Completion struct {
	AcResult      string     `json:"acResult"`
	Documentation string     `json:"documentation,omitempty"`
	Type          string     `json:"type,omitempty"`
	Params        []string   `json:"params"` // nil for non-callables
	Signature     *Signature `json:"signature,omitempty"`
}

// complete classifies the cursor at code point pos of src.
func (e *Engine) complete(src string, pos int, filter bool) (*completion.Result, error) {
	res := e.analyze(src)
	off, ok := res.File.ByteOffset(pos)
	if !ok {
		return nil, ErrPositionOutOfRange
	}
	return completion.Complete(res.File, res.Tree, res.Tokens, off, completion.Options{
		Modules: e.mods,
		Dialect: e.cfg.Dialect(),
		Filter:  filter,
	}), nil
}

// AutoComplete returns the names visible at code point pos of src. With
// filter set only names starting with the identifier typed before pos are
// returned. A cursor inside a string, a comment or a number yields an empty
// list.
func (e *Engine) AutoComplete(src string, pos int, filter bool) ([]string, error) {
	r, err := e.complete(src, pos, filter)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return []string{}, nil
	}
	out := r.Names()
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// AutoCompleteExt returns the ranked candidates for the identifier typed
// before pos. The slice is nil when pos is not in a place where a name can
// be completed, and empty when nothing matches.
func (e *Engine) AutoCompleteExt(src string, pos int) ([]Completion, error) {
	r, err := e.complete(src, pos, true)
	if err != nil || r == nil {
		return nil, err
	}
	out := make([]Completion, 0, len(r.Items))
	for _, c := range r.Items {
		out = append(out, Completion{
			AcResult:      c.Name,
			Documentation: c.Doc,
			Type:          c.Type,
			Params:        c.Params(),
			Signature:     c.Signature,
		})
	}
	return out, nil
}
