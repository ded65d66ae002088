// Package formconfig loads declarative form definitions written in YAML or
// JSON and resolves them into model.Form values. Validators are referenced by
// name and built through a validation.Registry.
//
//	name: basic
//	title: Basic form
//	fields:
//	  - name: email
//	    label: Email
//	    type: input
//	    attrs: {type: email}
//	    validationMode: blur
//	    validators:
//	      - required
//	      - name: email
//	        message: Enter a valid address
package formconfig
