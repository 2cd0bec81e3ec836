// Package forms validates user-submitted forms.
//
// Each Validate function checks every field and reports all failures at
// once in a *ValidationError keyed by the field's JSON name. The HTTP layer
// renders it as 422 Unprocessable Entity.
//
// Forms:
//   - ListingForm: a new market update, producing a model.ListingInput
//   - ProfileForm: user profile
//   - ShiftForm: a shift posting
//   - ApplicationForm: a shift application
package forms
