package branchlogic

import (
	"context"

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/resolve"
)

// defaultEngine backs the package-level convenience functions.
// No logging, tracing, or metrics.
var defaultEngine = New()

// Parse evaluates branching logic text against p and returns whether
// the condition holds. Equivalent to New().Parse with a background
// context.
//
// Example:
//
//	record := resolve.ProviderFunc(func(name, event, checkOption string) (any, error) {
//	    if name == "age" {
//	        return 20, nil
//	    }
//	    return nil, resolve.ErrNotFound
//	})
//	show, err := branchlogic.Parse("[age] > 18", record)
func Parse(text string, p resolve.Provider) (bool, error) {
	return defaultEngine.Parse(context.Background(), text, p)
}
