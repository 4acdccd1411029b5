package intercept

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eapache/queue"
	"github.com/hupe1980/autopsy/core"
)

// CompositeInterceptor wraps a composite value. Reading a member through it
// wraps callable and composite members on first read, writes the wrapper
// back into the composite's slot and tracks it under the member name.
// Primitive members are returned as-is and counted.
//
// Tracked entries are keyed by member name: a member is wrapped at most once,
// and a later read that finds a new raw value in the slot rebinds the
// existing wrapper to it instead of creating a second one.
//
// CompositeInterceptor itself implements core.Composite, so it can be
// substituted anywhere the original composite was used.
type CompositeInterceptor struct {
	id   string
	opts Options

	mu         sync.Mutex
	target     core.Composite
	callables  map[string]*CallInterceptor
	composites map[string]*CompositeInterceptor
	primitives map[string]*primitiveRecord
}

// View is the non-destructive summary of a CompositeInterceptor. Callables
// are the receiver's own; Composites is the deep, flattened enumeration.
type View struct {
	Callables  map[string]*CallInterceptor
	Composites []*CompositeInterceptor
	Primitives map[string]core.PrimitiveSummary
}

// NewCompositeInterceptor wraps target.
func NewCompositeInterceptor(target core.Composite, optFns ...func(o *Options)) *CompositeInterceptor {
	return newComposite(target, buildOptions(optFns))
}

func newComposite(target core.Composite, opts Options) *CompositeInterceptor {
	return &CompositeInterceptor{
		id:         core.NewID(),
		opts:       opts,
		target:     target,
		callables:  map[string]*CallInterceptor{},
		composites: map[string]*CompositeInterceptor{},
		primitives: map[string]*primitiveRecord{},
	}
}

// ID returns the interceptor's unique identifier.
func (c *CompositeInterceptor) ID() string { return c.id }

// Kind always returns core.KindComposite.
func (c *CompositeInterceptor) Kind() core.Kind { return core.KindComposite }

// Name returns the member name the interceptor was created for, or the name
// given at construction.
func (c *CompositeInterceptor) Name() string { return c.opts.Name }

// Target returns the wrapped composite.
func (c *CompositeInterceptor) Target() core.Composite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Get reads a member through the interceptor. Absent members yield nil.
func (c *CompositeInterceptor) Get(name string) any {
	v, _ := c.Member(name)
	return v
}

// Member implements core.Composite with interception semantics.
func (c *CompositeInterceptor) Member(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.target.Member(name)
	if !ok {
		return nil, false
	}
	if _, wrapped := raw.(core.Interceptor); wrapped {
		return raw, true
	}

	switch kind := core.Classify(raw); {
	case kind == core.KindCallable:
		return c.wrapCallableLocked(name, raw), true
	case kind == core.KindComposite:
		if !c.opts.Recursive {
			return raw, true
		}
		return c.wrapCompositeLocked(name, raw), true
	case kind.IsPrimitive():
		c.observeLocked(name, raw)
		return raw, true
	default:
		return raw, true
	}
}

// SetMember implements core.Composite. It is an explicit replacement: any
// wrapper tracked under name is forgotten, so the next read wraps afresh.
func (c *CompositeInterceptor) SetMember(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.callables, name)
	delete(c.composites, name)
	c.target.SetMember(name, value)
}

// Set is an alias of SetMember.
func (c *CompositeInterceptor) Set(name string, value any) { c.SetMember(name, value) }

// Call reads a callable member and invokes it.
func (c *CompositeInterceptor) Call(ctx context.Context, name string, args ...any) (any, error) {
	ci, ok := c.Get(name).(*CallInterceptor)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotCallable)
	}
	return ci.Call(ctx, args...)
}

// Composite reads a composite member, reporting false if it is not one.
func (c *CompositeInterceptor) Composite(name string) (*CompositeInterceptor, bool) {
	ci, ok := c.Get(name).(*CompositeInterceptor)
	return ci, ok
}

func (c *CompositeInterceptor) childOptions(name string) Options {
	opts := c.opts
	opts.Name = name
	return opts
}

func (c *CompositeInterceptor) wrapCallableLocked(name string, raw any) *CallInterceptor {
	fn, _ := core.AsFunc(raw)
	if existing, ok := c.callables[name]; ok {
		existing.rebind(fn)
		c.target.SetMember(name, existing)
		return existing
	}
	opts := c.childOptions(name)
	ci := NewCallInterceptor(fn, func(o *Options) { *o = opts })
	c.callables[name] = ci
	c.target.SetMember(name, ci)
	return ci
}

func (c *CompositeInterceptor) wrapCompositeLocked(name string, raw any) *CompositeInterceptor {
	target, _ := core.AsComposite(raw)
	if existing, ok := c.composites[name]; ok {
		existing.rebind(target)
		c.target.SetMember(name, existing)
		return existing
	}
	ci := newComposite(target, c.childOptions(name))
	c.composites[name] = ci
	c.target.SetMember(name, ci)
	return ci
}

func (c *CompositeInterceptor) observeLocked(name string, v any) {
	rec, ok := c.primitives[name]
	if !ok {
		rec = newPrimitiveRecord()
		c.primitives[name] = rec
	}
	rec.observe(v)
}

func (c *CompositeInterceptor) rebind(target core.Composite) {
	c.mu.Lock()
	c.target = target
	c.mu.Unlock()
}

// Dump hands the tracked composites, callables and primitives to sink and
// resets all three to empty. A nil sink just drains.
func (c *CompositeInterceptor) Dump(sink func(composites map[string]*CompositeInterceptor, callables map[string]*CallInterceptor, primitives map[string]core.PrimitiveSummary)) {
	c.mu.Lock()
	composites, callables, primitives := c.composites, c.callables, c.primitives
	c.composites = map[string]*CompositeInterceptor{}
	c.callables = map[string]*CallInterceptor{}
	c.primitives = map[string]*primitiveRecord{}
	c.mu.Unlock()

	if sink != nil {
		sink(composites, callables, summarizePrimitives(primitives))
	}
}

// DeepEnumerate returns the receiver and every composite interceptor
// reachable through tracked composite members, each exactly once. The walk
// uses a work queue rather than recursion, so depth is unbounded and cycles
// terminate.
func (c *CompositeInterceptor) DeepEnumerate() []*CompositeInterceptor {
	seen := map[*CompositeInterceptor]struct{}{c: {}}
	out := []*CompositeInterceptor{c}

	work := queue.New()
	work.Add(c)
	for work.Length() > 0 {
		next := work.Remove().(*CompositeInterceptor)
		for _, child := range next.childComposites() {
			if child == nil {
				continue
			}
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			out = append(out, child)
			work.Add(child)
		}
	}
	return out
}

// childComposites snapshots the tracked composites in member name order.
func (c *CompositeInterceptor) childComposites() []*CompositeInterceptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.composites))
	for name := range c.composites {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*CompositeInterceptor, 0, len(names))
	for _, name := range names {
		children = append(children, c.composites[name])
	}
	return children
}

// Summary returns the receiver's callables (shallow), the deep composite
// enumeration and the primitive records, without clearing anything.
func (c *CompositeInterceptor) Summary() View {
	deep := c.DeepEnumerate()

	c.mu.Lock()
	defer c.mu.Unlock()
	callables := make(map[string]*CallInterceptor, len(c.callables))
	for k, v := range c.callables {
		callables[k] = v
	}
	return View{Callables: callables, Composites: deep, Primitives: summarizePrimitives(c.primitives)}
}

// Tracked merges every tracked entry into one name keyed view. On a name
// collision composites win over primitives, which win over callables.
func (c *CompositeInterceptor) Tracked() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.callables)+len(c.primitives)+len(c.composites))
	for k, v := range c.callables {
		out[k] = v
	}
	for k, v := range c.primitives {
		out[k] = v.summary()
	}
	for k, v := range c.composites {
		out[k] = v
	}
	return out
}

// Snapshot converts the deep summary into plain report data. Nested holds
// every reachable composite other than the receiver.
func (c *CompositeInterceptor) Snapshot() core.CompositeSummary {
	deep := c.DeepEnumerate()
	root := deep[0].digest()
	for _, ci := range deep[1:] {
		root.Nested = append(root.Nested, ci.digest())
	}
	return root
}

func (c *CompositeInterceptor) digest() core.CompositeSummary {
	c.mu.Lock()
	callables := make(map[string]*CallInterceptor, len(c.callables))
	for k, v := range c.callables {
		callables[k] = v
	}
	primitives := summarizePrimitives(c.primitives)
	c.mu.Unlock()

	summaries := make(map[string]core.CallSummary, len(callables))
	for k, v := range callables {
		summaries[k] = v.Summary()
	}
	return core.CompositeSummary{ID: c.id, Callables: summaries, Primitives: primitives}
}
