// Package doctor provides diagnostic checks for a rulebook installation.
//
// A [Runner] executes [Check]s in order and aggregates their results into a
// [DoctorReport]. The stock checks cover the configuration ([ConfigCheck]),
// rule providers ([ProviderCheck]), schema files ([SchemaCheck]) and the
// permissions of schema directories ([PathPermissionCheck]). Checks that
// implement [Fixer] can repair what they find.
package doctor
