package errors

// Registered codes.
const (
	CodeNonReactiveTarget = "T001"
	CodeReadonlyMutation  = "T002"
	CodeRootDataAddition  = "T003"
	CodeInvalidTarget     = "T004"
	CodeEvaluation        = "T010"
	CodeCallback          = "T011"
	CodeNextTick          = "T012"
	CodeLifecycleHook     = "T013"
	CodeErrorHandler      = "T014"
	CodeCircularUpdate    = "T020"
	CodeLoopClosed        = "T021"

	CodeDuplicateKey  = "T050"
	CodeMissingKey    = "T051"
	CodeTreeTooDeep   = "T052"
	CodeAdapterFailed = "T053"
	CodeUnknownNode   = "T054"

	CodeConfigInvalid  = "T080"
	CodeConfigNotFound = "T081"
	CodeConfigParse    = "T082"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Severity   Severity
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reactive (T001-T049)
	// ============================================

	CodeNonReactiveTarget: {
		Category: CategoryReactive,
		Severity: SeverityWarning,
		Message:  "Cannot set reactive property on a non-reactive value",
		Detail:   "Set and Del only make sense on observed objects and arrays. The target is frozen, raw, or was never observed.",
	},
	CodeReadonlyMutation: {
		Category:   CategoryReactive,
		Severity:   SeverityWarning,
		Message:    "Avoid mutating a read-only value directly",
		Detail:     "The value is owned by a parent scope and will be overwritten whenever the parent re-renders.",
		Suggestion: "Derive a local copy with a computed value instead",
	},
	CodeRootDataAddition: {
		Category:   CategoryReactive,
		Severity:   SeverityWarning,
		Message:    "Avoid adding reactive properties to root state at runtime",
		Suggestion: "Declare the key upfront in the root state",
	},
	CodeInvalidTarget: {
		Category: CategoryReactive,
		Severity: SeverityWarning,
		Message:  "Cannot set reactive property on undefined or primitive value",
	},
	CodeEvaluation: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Error in watcher getter",
		Detail:   "A watcher's getter returned an error or panicked. The previous value is kept.",
	},
	CodeCallback: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Error in watcher callback",
	},
	CodeNextTick: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Error in nextTick callback",
	},
	CodeLifecycleHook: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Error in lifecycle hook",
	},
	CodeErrorHandler: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Error in error handler",
	},
	CodeCircularUpdate: {
		Category:   CategoryReactive,
		Severity:   SeverityFatal,
		Message:    "You may have an infinite update loop",
		Detail:     "A watcher re-queued itself more times than allowed within one flush. The flush was aborted.",
		Suggestion: "Check for watchers that write to state they also read",
	},
	CodeLoopClosed: {
		Category: CategoryReactive,
		Severity: SeverityError,
		Message:  "Event loop is closed",
	},

	// ============================================
	// Patch (T050-T079)
	// ============================================

	CodeDuplicateKey: {
		Category: CategoryPatch,
		Severity: SeverityWarning,
		Message:  "Duplicate keys detected",
		Detail:   "Two siblings share the same key. This may cause an update error.",
	},
	CodeMissingKey: {
		Category:   CategoryPatch,
		Severity:   SeverityWarning,
		Message:    "List-rendered node has no key",
		Suggestion: "Give every list item a stable, unique key",
	},
	CodeTreeTooDeep: {
		Category: CategoryPatch,
		Severity: SeverityError,
		Message:  "Tree exceeds maximum patch depth",
		Detail:   "Reconciliation stopped before exhausting the call stack. The live tree may be partially updated.",
	},
	CodeAdapterFailed: {
		Category: CategoryPatch,
		Severity: SeverityError,
		Message:  "Platform adapter operation failed",
	},
	CodeUnknownNode: {
		Category: CategoryPatch,
		Severity: SeverityError,
		Message:  "Unknown node handle",
	},

	// ============================================
	// Config (T080-T099)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  "Invalid configuration",
	},
	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Severity:   SeverityError,
		Message:    "Configuration file not found",
		Suggestion: "Run `tether config init` to create tether.json",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  "Configuration file could not be parsed",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
