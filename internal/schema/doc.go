// Package schema loads model rule declarations from schema files and compiles
// them into [rules.Schema] values.
//
// A schema file lists models, each with typed fields and the rule kinds
// declared on them. Models may extend another model in the same file and
// inherit its fields:
//
//	models:
//	  - name: Person
//	    fields:
//	      - name: Name
//	        type: string
//	        rules: [{kind: required}]
//	  - name: Contact
//	    extends: Person
//	    fields:
//	      - name: Phone
//	        type: string
//	        display: Phone number
//	        rules:
//	          - kind: required
//	          - kind: phone_number
//
// YAML, TOML, JSON and Markdown with YAML frontmatter are accepted, chosen by
// file extension. Kind names are matched against the provider's kinds without
// regard to case; names that match nothing are kept as written so the rules
// engine reports them when the field is validated.
package schema
