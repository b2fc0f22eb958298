package driver

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/resolve"
	"weft/internal/schema"
	"weft/internal/source"
)

// Options configures one resolution run.
type Options struct {
	Jobs           int
	MaxDiagnostics int
	NoCache        bool
	// CacheApp names the disk cache directory; empty disables caching.
	CacheApp string
}

// Result is the outcome of one fixture file.
type Result struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Shapes []string // nominal types materialized while resolving
	Ops    int      // operations lowered without error
	Instrs int      // instructions emitted for the fixture
	Cached bool
}

// ResolveFixtures loads, decodes and resolves fixture files. Decoding and
// cache probing run in parallel; resolution itself mutates the shared unit
// (type interner, shape cache), so lowering is serialized.
func ResolveFixtures(ctx context.Context, paths []string, opts Options) (*source.FileSet, *resolve.Unit, []Result, error) {
	fileSet := source.NewFileSet()
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	var cache *DiskCache
	if opts.CacheApp != "" {
		// A broken cache dir degrades to uncached operation.
		cache, _ = OpenDiskCache(opts.CacheApp)
	}

	unit := resolve.NewUnit()
	var unitMu sync.Mutex

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(opts.MaxDiagnostics)
				if loadErr, hadError := loadErrors[path]; hadError {
					bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
						"failed to load fixture: "+loadErr.Error()))
					results[i] = Result{Path: path, Bag: bag}
					return nil
				}
				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				if cache != nil && !opts.NoCache {
					var payload DiskPayload
					if ok, _ := cache.Get(file.Hash, &payload); ok && !payload.Broken {
						results[i] = Result{
							Path:   path,
							FileID: fileID,
							Bag:    bag,
							Shapes: payload.Shapes,
							Ops:    int(payload.Ops),
							Instrs: int(payload.Instrs),
							Cached: true,
						}
						return nil
					}
				}

				fx, err := DecodeFixture(file.Content)
				if err != nil {
					bag.Add(diag.NewError(diag.IOBadFixture, source.Span{File: fileID}, err.Error()))
					results[i] = Result{Path: path, FileID: fileID, Bag: bag}
					return nil
				}

				unitMu.Lock()
				res := runFixture(unit, fileID, fx, diag.BagReporter{Bag: bag})
				unitMu.Unlock()

				res.Path = path
				res.FileID = fileID
				res.Bag = bag
				results[i] = res

				if cache != nil {
					_ = cache.Put(file.Hash, &DiskPayload{
						Schema:      diskCacheSchemaVersion,
						Path:        path,
						ContentHash: file.Hash,
						Shapes:      res.Shapes,
						Ops:         uint32(res.Ops),
						Instrs:      uint32(res.Instrs),
						Broken:      bag.HasErrors(),
					})
				}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, unit, results, err
	}
	return fileSet, unit, results, nil
}

// runFixture registers the fixture's callables, resolves its instance
// graph and lowers its operations. Per-operation failures go to the
// reporter; resolution continues with the next operation.
func runFixture(unit *resolve.Unit, fileID source.FileID, fx *Fixture, rep diag.Reporter) Result {
	var res Result
	span := source.Span{File: fileID}

	for _, ns := range fx.Builtins {
		unit.RegisterBuiltinNamespace(ns)
	}
	for _, f := range fx.Fns {
		s, err := fixtureSchema(unit.Types, f)
		if err != nil {
			rep.Report(diag.IOBadFixture, diag.SevError, span, err.Error(), nil)
			return res
		}
		unit.RegisterFn(f.Name, s)
	}

	records, err := buildGraph(fx)
	if err != nil {
		rep.Report(diag.IOBadFixture, diag.SevError, span, err.Error(), nil)
		return res
	}

	fn := resolve.NewFn(unit, fx.Unit.Name)
	instances := make(map[string]*resolve.Instance, len(fx.Instances))
	for _, decl := range fx.Instances {
		rec := records[decl.Name]
		inst, err := resolve.InstanceFor(fn, span, rec, rec.Cls)
		if err != nil {
			reportError(rep, span, err)
			continue
		}
		instances[decl.Name] = inst
		if info, ok := unit.Types.ClassInfo(inst.Shape().Type()); ok {
			res.Shapes = append(res.Shapes, info.Name)
		}
	}

	for _, op := range fx.Ops {
		if err := runOp(fn, span, instances, op); err != nil {
			reportError(rep, span, err)
			continue
		}
		res.Ops++
	}

	res.Instrs = len(fn.IR.Instrs())
	return res
}

// reportError forwards a resolution error to the reporter, preserving the
// wrapped diagnostic when there is one.
func reportError(rep diag.Reporter, span source.Span, err error) {
	if de, ok := diag.AsError(err); ok {
		d := de.Diag
		rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		return
	}
	rep.Report(diag.IOBadFixture, diag.SevError, span, err.Error(), nil)
}

func runOp(fn *resolve.Fn, span source.Span, instances map[string]*resolve.Instance, op FixtureOp) error {
	inst, ok := instances[op.Recv]
	if !ok {
		return diag.Errorf(diag.IOBadFixture, span, "operation names unknown instance %q", op.Recv)
	}

	target := resolve.Resolved(inst)
	var path []string
	if op.Attr != "" {
		path = strings.Split(op.Attr, ".")
	}

	switch op.Op {
	case "set":
		if len(path) == 0 {
			return diag.Errorf(diag.IOBadFixture, span, "set operation needs an attribute path")
		}
		for _, seg := range path[:len(path)-1] {
			var err error
			if target, err = target.Attr(fn, span, seg); err != nil {
				return err
			}
		}
		v, err := lowerLiteral(fn, span, op.Value)
		if err != nil {
			return err
		}
		return target.SetAttr(fn, span, path[len(path)-1], v)

	case "attr":
		for _, seg := range path {
			var err error
			if target, err = target.Attr(fn, span, seg); err != nil {
				return err
			}
		}
		return nil

	case "", "call":
		for _, seg := range path {
			var err error
			if target, err = target.Attr(fn, span, seg); err != nil {
				return err
			}
		}
		args, err := lowerArgs(fn, span, op.Args)
		if err != nil {
			return err
		}
		var kwargs []schema.Arg
		if len(op.Kwargs) > 0 {
			if kwargs, err = lowerKwargs(fn, span, op.Kwargs); err != nil {
				return err
			}
		}
		_, err = target.Call(fn, span, args, kwargs, op.Results)
		return err
	}
	return diag.Errorf(diag.IOBadFixture, span, "unknown operation %q", op.Op)
}

func lowerLiteral(fn *resolve.Fn, span source.Span, raw any) (ir.ValueID, error) {
	c, ok := literalConst(fn.Unit.Types, raw)
	if !ok {
		return ir.NoValueID, diag.Errorf(diag.IOBadFixture, span, "value %v is not a literal", raw)
	}
	return fn.IR.EmitConst(c), nil
}

func lowerArgs(fn *resolve.Fn, span source.Span, raw []any) ([]schema.Arg, error) {
	var out []schema.Arg
	for _, a := range raw {
		c, ok := literalConst(fn.Unit.Types, a)
		if !ok {
			return nil, diag.Errorf(diag.IOBadFixture, span, "argument %v is not a literal", a)
		}
		cc := c
		out = append(out, schema.Arg{
			Value: fn.IR.EmitConst(c),
			Type:  c.Type,
			Span:  span,
			Const: &cc,
		})
	}
	return out, nil
}

func lowerKwargs(fn *resolve.Fn, span source.Span, raw map[string]any) ([]schema.Arg, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	// Keyword order is irrelevant to binding but kept stable for
	// reproducible diagnostics.
	sort.Strings(names)
	var out []schema.Arg
	for _, name := range names {
		c, ok := literalConst(fn.Unit.Types, raw[name])
		if !ok {
			return nil, diag.Errorf(diag.IOBadFixture, span, "keyword argument %q is not a literal", name)
		}
		cc := c
		out = append(out, schema.Arg{
			Name:  name,
			Value: fn.IR.EmitConst(c),
			Type:  c.Type,
			Span:  span,
			Const: &cc,
		})
	}
	return out, nil
}
