// Package rules resolves declared validation kinds to registered rule
// functions and evaluates them.
//
// A model declares "this field needs kind K" through a [Schema]. A [Provider]
// registers stateless rule functions, each tagged with one or more kinds and
// each declaring its parameters by [Role]. At runtime a [Registry] scans the
// provider once, checks every function against the rule contract and caches
// the resulting [Table]; a [Dispatcher] then selects the functions able to
// accept the field's value and runs them in registration order.
//
// # Rule contract
//
// A rule function returns "" on success or a failure message. It has one to
// three parameters: exactly one [RoleValue], and at most one each of
// [RoleContext] (the [*Field]) and [RoleDeclaredType] (the field's static
// reflect.Type). Violations surface as a [*ConfigurationError] on first use
// of the provider, before any field is validated.
//
//	lib := rules.NewLibrary("app", Required, PhoneNumber).Add(
//		rules.CheckTypeField("ValidateRequired", validateRequired, Required),
//		rules.CheckField("ValidatePhoneNumber", validatePhone, PhoneNumber),
//	)
//
// # Dispatch
//
//	reg := rules.NewRegistry()
//	out, err := reg.Dispatcher(lib).Validate(value, PhoneNumber, false, &rules.Field{Name: "Phone"})
//	if err != nil {
//		// configuration defect: fail the build or test
//	}
//	if out.Failed() {
//		// ordinary validation failure: report out.Message for out.Field
//	}
//
// Candidate matching uses the value's runtime type, or the field's declared
// type when the value is nil, so that "required" rules still run on missing
// values. The first failing candidate ends evaluation of that field; other
// fields are unaffected.
//
// # Errors
//
// Two taxonomies never mix. A [*ConfigurationError] (matching
// [ErrConfiguration] and one of the sentinel causes) reports a registration
// or declaration defect and carries a remediation hint readable with [Hint].
// A failed [Outcome] is an ordinary return value. Panics raised by a rule
// function are not recovered.
//
// # Describing models
//
// [Describe] turns a schema into a serializable [Definition] for clients that
// mirror server-side rules. [SchemaOf] builds a schema from struct tags.
package rules
