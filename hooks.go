package datefilter

// TransformHook observes every transform
type TransformHook interface {
	BeforeTransform(ctx *TransformContext)
	AfterTransform(ctx *TransformContext)
}

// TransformContext is shared by the Before and After calls of one transform.
// Output, Outcome, Err and Resolved are set before AfterTransform runs.
type TransformContext struct {
	Input    any
	Pattern  string
	Output   any
	Outcome  Outcome
	Err      error
	Resolved Resolved
	Metadata map[string]any
}

func (ctx *TransformContext) ensureMetadata() {
	if ctx.Metadata == nil {
		ctx.Metadata = make(map[string]any)
	}
}

func (ctx *TransformContext) SetMetadata(key string, value any) {
	if ctx == nil || key == "" {
		return
	}
	ctx.ensureMetadata()
	ctx.Metadata[key] = value
}

func (ctx *TransformContext) MetadataValue(key string) (any, bool) {
	if ctx == nil || ctx.Metadata == nil {
		return nil, false
	}
	val, ok := ctx.Metadata[key]
	return val, ok
}

// TransformHookFuncs adapts plain functions to TransformHook
type TransformHookFuncs struct {
	Before func(*TransformContext)
	After  func(*TransformContext)
}

var _ TransformHook = TransformHookFuncs{}

func (h TransformHookFuncs) BeforeTransform(ctx *TransformContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h TransformHookFuncs) AfterTransform(ctx *TransformContext) {
	if h.After != nil {
		h.After(ctx)
	}
}
