// Package validator provides rule-based validation of form input.
//
// A Rule pairs a check with the ValidationError reported when the check
// fails. Apply runs every rule and collects all failures, so a form can show
// each field's problem at once:
//
//	err := validator.Apply(
//		validator.MinLen("name", in.Name, 2),
//		validator.ValidEmail("email", in.Email),
//		validator.MaxLen("message", in.Message, 1000),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		for _, field := range errs.Fields() {
//			fmt.Println(field, errs.Get(field))
//		}
//	}
//
// Lengths are counted in characters (runes), not bytes.
package validator
