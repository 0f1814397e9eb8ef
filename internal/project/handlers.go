package project

import (
	"context"

	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/wire"
)

// registerHandlers builds the op-name → Handler table once, at
// construction; the table itself is never mutated afterward so dispatch
// can read it without locking.
func (r *Router) registerHandlers() {
	h := r.handlers

	// Analyzer
	h["remove-file"] = r.hRemoveFile
	h["reload-all"] = r.hReloadAll
	h["reload-files"] = r.hReloadFiles
	h["patch-source"] = r.hPatchSource
	h["completions"] = r.hCompletions
	h["uses-of-sym-at-point"] = r.hUsesOfSymAtPoint
	h["package-member-completion"] = r.hPackageMemberCompletion
	h["inspect-type-at-point"] = r.hInspectTypeAtPoint
	h["inspect-type-by-id"] = r.hInspectTypeByID
	h["symbol-at-point"] = r.hSymbolAtPoint
	h["inspect-package-by-path"] = r.hInspectPackageByPath
	h["type-at-point"] = r.hTypeAtPoint
	h["type-by-id"] = r.hTypeByID
	h["type-by-name"] = r.hTypeByName
	h["type-by-name-at-point"] = r.hTypeByNameAtPoint
	h["call-completion"] = r.hCallCompletion
	h["symbol-designations-in-region"] = r.hSymbolDesignationsInRegion
	h["import-suggestions"] = r.hImportSuggestions
	h["public-symbol-search"] = r.hPublicSymbolSearch

	// Debug
	h["debug-start"] = r.hDebugStart
	h["debug-attach"] = r.hDebugAttach
	h["debug-disconnect"] = r.hDebugDisconnect
	h["debug-set-breakpoint"] = r.hDebugSetBreakpoint
	h["debug-clear-breakpoint"] = r.hDebugClearBreakpoint
	h["debug-clear-all-breakpoints"] = r.hDebugClearAllBreakpoints
	h["debug-step"] = r.hDebugStep
	h["debug-resume"] = r.hDebugResume
	h["debug-value"] = r.hDebugValue
	h["debug-to-string"] = r.hDebugToString
	h["debug-set-value"] = r.hDebugSetValue
	h["debug-backtrace"] = r.hDebugBacktrace
}

// --- Analyzer-routed handlers ------------------------------------------

func (r *Router) hRemoveFile(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	ok, err := r.Analyzer.RemoveFile(ctx, file)
	return encodeBool(ok), err
}

func (r *Router) hReloadAll(ctx context.Context, args []wire.Value) (wire.Value, error) {
	ok, err := r.Analyzer.ReloadAll(ctx)
	return encodeBool(ok), err
}

func (r *Router) hReloadFiles(ctx context.Context, args []wire.Value) (wire.Value, error) {
	files, err := argStringList(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	ok, err := r.Analyzer.ReloadFiles(ctx, files)
	return encodeBool(ok), err
}

func (r *Router) hPatchSource(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	if len(args) < 2 {
		return wire.Value{}, errMissingArg(1)
	}
	edits, err := decodeSourceEdits(args[1])
	if err != nil {
		return wire.Value{}, err
	}
	ok, err := r.Analyzer.PatchSource(ctx, file, edits)
	return encodeBool(ok), err
}

func (r *Router) hCompletions(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	maxResults, _ := argInt(args, 2)
	caseSens := argBool(args, 3)
	reload := argBool(args, 4)
	cs, err := r.Analyzer.Completions(ctx, file, int(point), int(maxResults), caseSens, reload)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeCompletionList(cs), nil
}

func (r *Router) hUsesOfSymAtPoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	rs, err := r.Analyzer.UsesOfSymAtPoint(ctx, file, int(point))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeSourceRangeList(rs), nil
}

func (r *Router) hPackageMemberCompletion(ctx context.Context, args []wire.Value) (wire.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	prefix, _ := argString(args, 1)
	cs, err := r.Analyzer.PackageMemberCompletion(ctx, path, prefix)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeCompletionList(cs), nil
}

func (r *Router) hInspectTypeAtPoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.InspectTypeAtPoint(ctx, file, int(point))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hInspectTypeByID(ctx context.Context, args []wire.Value) (wire.Value, error) {
	id, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.InspectTypeByID(ctx, int(id))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hSymbolAtPoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	s, err := r.Analyzer.SymbolAtPoint(ctx, file, int(point))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeSymbolInfo(s), nil
}

func (r *Router) hInspectPackageByPath(ctx context.Context, args []wire.Value) (wire.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.InspectPackageByPath(ctx, path)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hTypeAtPoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.TypeAtPoint(ctx, file, int(point))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hTypeByID(ctx context.Context, args []wire.Value) (wire.Value, error) {
	id, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.TypeByID(ctx, int(id))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hTypeByName(ctx context.Context, args []wire.Value) (wire.Value, error) {
	name, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.TypeByName(ctx, name)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hTypeByNameAtPoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	name, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	file, err := argString(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	point, err := argInt(args, 2)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.TypeByNameAtPoint(ctx, name, file, int(point))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hCallCompletion(ctx context.Context, args []wire.Value) (wire.Value, error) {
	id, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	t, err := r.Analyzer.CallCompletion(ctx, int(id))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeTypeInfo(t), nil
}

func (r *Router) hSymbolDesignationsInRegion(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	start, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	end, err := argInt(args, 2)
	if err != nil {
		return wire.Value{}, err
	}
	kinds, _ := argStringList(args, 3)
	ds, err := r.Analyzer.SymbolDesignationsInRegion(ctx, file, int(start), int(end), kinds)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeDesignationList(ds), nil
}

func (r *Router) hImportSuggestions(ctx context.Context, args []wire.Value) (wire.Value, error) {
	names, err := argStringList(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	limit, _ := argInt(args, 1)
	m, err := r.Analyzer.ImportSuggestions(ctx, names, int(limit))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeImportSuggestions(m), nil
}

func (r *Router) hPublicSymbolSearch(ctx context.Context, args []wire.Value) (wire.Value, error) {
	keywords, err := argStringList(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	limit, _ := argInt(args, 1)
	typesOnly := argBool(args, 2)
	rs, err := r.Analyzer.PublicSymbolSearch(ctx, keywords, int(limit), typesOnly)
	if err != nil {
		return wire.Value{}, err
	}
	return encodeSymbolResultList(rs), nil
}

// --- Debug-routed handlers ----------------------------------------------

func (r *Router) hDebugStart(ctx context.Context, args []wire.Value) (wire.Value, error) {
	cmdLine, err := argStringList(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	if err := r.Debug.Start(ctx, cmdLine); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugAttach(ctx context.Context, args []wire.Value) (wire.Value, error) {
	host, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	port, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	if err := r.Debug.Attach(ctx, host, int(port)); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugDisconnect(ctx context.Context, args []wire.Value) (wire.Value, error) {
	if err := r.Debug.Disconnect(ctx); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugSetBreakpoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	line, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	if err := r.Debug.SetBreakpoint(ctx, file, int(line)); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugClearBreakpoint(ctx context.Context, args []wire.Value) (wire.Value, error) {
	file, err := argString(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	line, err := argInt(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	if err := r.Debug.ClearBreakpoint(ctx, file, int(line)); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugClearAllBreakpoints(ctx context.Context, args []wire.Value) (wire.Value, error) {
	if err := r.Debug.ClearAllBreakpoints(ctx); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugStep(ctx context.Context, args []wire.Value) (wire.Value, error) {
	threadID, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	kindStr, err := argString(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	var kind debug.StepKind
	switch kindStr {
	case "into":
		kind = debug.StepInto
	case "over":
		kind = debug.StepOver
	case "out":
		kind = debug.StepOut
	default:
		return wire.Value{}, errUnrecognizedStepKind(kindStr)
	}
	if err := r.Debug.Step(ctx, threadID, kind); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugResume(ctx context.Context, args []wire.Value) (wire.Value, error) {
	if err := r.Debug.Resume(ctx); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugValue(ctx context.Context, args []wire.Value) (wire.Value, error) {
	if len(args) < 1 {
		return wire.Value{}, errMissingArg(0)
	}
	loc, err := decodeDebugLocation(args[0])
	if err != nil {
		return wire.Value{}, err
	}
	summary, pinnedID, err := r.Debug.DebugValueReq(ctx, loc)
	if err != nil {
		return wire.Value{}, err
	}
	return wire.List(wire.Keyword("value"), wire.Str(summary), wire.Keyword("object-id"), wire.Int(pinnedID)), nil
}

func (r *Router) hDebugToString(ctx context.Context, args []wire.Value) (wire.Value, error) {
	threadID, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	if len(args) < 2 {
		return wire.Value{}, errMissingArg(1)
	}
	loc, err := decodeDebugLocation(args[1])
	if err != nil {
		return wire.Value{}, err
	}
	s, err := r.Debug.DebugToString(ctx, threadID, loc)
	if err != nil {
		return wire.Value{}, err
	}
	return wire.Str(s), nil
}

func (r *Router) hDebugSetValue(ctx context.Context, args []wire.Value) (wire.Value, error) {
	if len(args) < 1 {
		return wire.Value{}, errMissingArg(0)
	}
	loc, err := decodeDebugLocation(args[0])
	if err != nil {
		return wire.Value{}, err
	}
	text, err := argString(args, 1)
	if err != nil {
		return wire.Value{}, err
	}
	if err := r.Debug.SetValue(ctx, loc, text); err != nil {
		return wire.Value{}, err
	}
	return wire.True, nil
}

func (r *Router) hDebugBacktrace(ctx context.Context, args []wire.Value) (wire.Value, error) {
	threadID, err := argInt(args, 0)
	if err != nil {
		return wire.Value{}, err
	}
	fromIndex, _ := argInt(args, 1)
	count, err := argInt(args, 2)
	if err != nil {
		count = -1
	}
	frames, err := r.Debug.Backtrace(ctx, threadID, int(fromIndex), int(count))
	if err != nil {
		return wire.Value{}, err
	}
	return encodeBacktrace(frames), nil
}
