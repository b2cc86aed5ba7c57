// Package validator checks records against compiled rule schemas and reports
// the outcome.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes between blocking errors and non-blocking warnings.
//   - [Issue]: A single problem, tied to a field and the rule kind that raised it.
//   - [Result]: Aggregates the issues of one record and provides helper methods.
//   - [Check]: Validates every declared field of a record concurrently.
//   - [Reporter]: Writes a Result as text or JSON.
//
// # Basic Usage
//
//	reg := rules.NewRegistry()
//	set, err := schema.Load("contact.yaml", std.New())
//	...
//	model, _ := set.Select("Contact")
//	rec, _ := record.Load("ada.json")
//
//	result, err := validator.Check(ctx, reg, model, rec, validator.Options{})
//	if err != nil {
//		// a *rules.ConfigurationError: the schema or provider is broken
//	}
//	validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
//
// Issues are ordered by field, then by declaration, regardless of how the
// concurrent checks were scheduled.
package validator
