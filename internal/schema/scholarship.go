package schema

// StudyLevels is the enumerated study-level choice set shared by the
// scholarship finder and SOP builder forms.
var StudyLevels = []string{"Bachelors", "Masters", "PhD"}

// StudyFields is the enumerated field-of-study choice set.
var StudyFields = []string{"Engineering", "Arts", "Science", "Business"}

// Scholarship builds the schema for the scholarship finder form. The four
// backend-required fields are required here; the rest are optional
// refinements.
func Scholarship(ctx Context) *Schema {
	return New(ctx, []FieldRule{
		{Field: "citizenship", RequiredMessage: "Please select your country of citizenship"},
		{
			Field:           "studyLevel",
			RequiredMessage: "Please select a study level",
			Check:           CheckOneOf(StudyLevels, "Please select a valid study level"),
		},
		{
			Field:           "field",
			RequiredMessage: "Please select your field of study",
			Check:           CheckOneOf(StudyFields, "Please select a valid field of study"),
		},
		{Field: "preferredCountry", RequiredMessage: "Please select a preferred country"},
		{Field: "performance"},
		{Field: "university"},
		{Field: "intake", Check: CheckDate},
		{Field: "age"},
	})
}

// SOP builds the schema for the SOP builder form, mirroring the backend's
// required-field list.
func SOP(ctx Context) *Schema {
	return New(ctx, []FieldRule{
		{Field: "name", RequiredMessage: "Please enter your name"},
		{Field: "countryOfOrigin", RequiredMessage: "Please select your country of origin"},
		{
			Field:           "intendedDegree",
			RequiredMessage: "Please select your intended degree",
			Check:           CheckOneOf(StudyLevels, "Please select a valid degree level"),
		},
		{Field: "preferredCountryOfStudy", RequiredMessage: "Please select a country of study"},
		{
			Field:           "preferredFieldOfStudy",
			RequiredMessage: "Please select your field of study",
			Check:           CheckOneOf(StudyFields, "Please select a valid field of study"),
		},
		{Field: "preferredUniversity", RequiredMessage: "Please select a university"},
		{Field: "graduationYear", Check: CheckDate},
		{Field: "relevantSubjects"},
	})
}
