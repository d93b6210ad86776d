package errors

import "net/http"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Status   int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Status:   http.StatusInternalServerError,
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Status:   http.StatusInternalServerError,
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// Runtime Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryRuntime,
		Message:  "Invalid selector",
		Status:   http.StatusInternalServerError,
	},
	"E111": {
		Category: CategoryRuntime,
		Message:  "No sortable container on page",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// API Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryAPI,
		Message:  "Invalid reorder payload",
		Status:   http.StatusBadRequest,
	},
	"E121": {
		Category: CategoryAPI,
		Message:  "Unknown sortable type",
		Status:   http.StatusNotFound,
	},
	"E122": {
		Category: CategoryAPI,
		Message:  "Unknown item id",
		Status:   http.StatusBadRequest,
	},
	"E123": {
		Category: CategoryAPI,
		Message:  "Not found",
		Status:   http.StatusNotFound,
	},
	"E124": {
		Category: CategoryAPI,
		Message:  "An internal error has occurred.",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// Protocol Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Status:   http.StatusBadRequest,
	},
	"E141": {
		Category: CategoryProtocol,
		Message:  "Unknown node id",
		Status:   http.StatusBadRequest,
	},
	"E142": {
		Category: CategoryProtocol,
		Message:  "Unknown event type",
		Status:   http.StatusBadRequest,
	},

	// ============================================
	// Store Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryStore,
		Message:  "Store unavailable",
		Status:   http.StatusServiceUnavailable,
	},
	"E151": {
		Category: CategoryStore,
		Message:  "Unknown store driver",
		Status:   http.StatusInternalServerError,
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
