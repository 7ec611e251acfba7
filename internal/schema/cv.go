package schema

// CV builds the cross-field schema for the CV builder form. The personal
// fields are always required; the tailoring fields depend on the context:
//
//   - targetCountry is required when no parsed CV exists, or when the
//     "country" format option is selected;
//   - targetCompany and jobDescription are required under the "company"
//     option (only with a parsed CV);
//   - targetRole and jobDescription are required under the "role" option
//     (only with a parsed CV).
func CV(ctx Context) *Schema {
	return New(ctx, []FieldRule{
		{Field: "firstName", RequiredMessage: "Please enter your first name"},
		{Field: "lastName", RequiredMessage: "Please enter your last name"},
		{
			Field:           "email",
			RequiredMessage: "Please enter your email",
			Check:           CheckEmail,
		},
		{
			Field:           "phone",
			RequiredMessage: "Please enter your phone number",
			Check:           CheckPhone,
		},
		{Field: "location"},
		{
			Field:           "targetCountry",
			RequiredMessage: "Please select a target country",
			When:            needsTargetCountry,
		},
		{
			Field:           "targetCompany",
			RequiredMessage: "Please enter a target company",
			When:            formatIs("company"),
		},
		{
			Field:           "targetRole",
			RequiredMessage: "Please enter a target role",
			When:            formatIs("role"),
		},
		{
			Field:           "jobDescription",
			RequiredMessage: "Please paste the job description",
			When: func(ctx Context, snap map[string]any) bool {
				return formatIs("company")(ctx, snap) || formatIs("role")(ctx, snap)
			},
		},
	})
}

// needsTargetCountry mirrors the tailoring rule: with no parsed CV the form
// always asks for a target country; with one, only under the "country"
// format option.
func needsTargetCountry(ctx Context, _ map[string]any) bool {
	return !ctx.HasParsedCV || ctx.FormatOption == "country"
}

// formatIs gates a rule on a parsed CV being present with the given format
// option selected.
func formatIs(option string) func(Context, map[string]any) bool {
	return func(ctx Context, _ map[string]any) bool {
		return ctx.HasParsedCV && ctx.FormatOption == option
	}
}
