// Package errors provides coded, actionable diagnostics for tether.
//
// Every diagnostic the runtime can surface (warnings, evaluation failures,
// circular updates, patch aborts) has a stable code in the registry:
//
//   - reactive: observation and watcher problems (T001-T049)
//   - patch: tree reconciliation problems (T050-T079)
//   - config: configuration loading and validation (T080-T099)
//
// # Usage
//
//	err := errors.New(errors.CodeDuplicateKey).
//	    WithSubject("todo-3").
//	    WithSuggestion("Give every list item a unique key")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARN T050: Duplicate keys detected
//	//
//	//   subject: todo-3
//	//
//	//   Two siblings share the same key. This may cause an update error.
//	//
//	//   Hint: Give every list item a unique key
package errors
