// Package profile holds the canonical profile record stored in the vector
// index: identity, eligibility flags, demographic attributes, derived
// narrative texts with their content hashes, and resolved photos.
package profile

import "time"

// Payload field names as stored in the index.
const (
	FieldID              = "id"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldName            = "name"
	FieldIsCirculateable = "is_circulateable"
	FieldIsPaused        = "is_paused"
	FieldTestLead        = "test_lead"
	FieldLastActive      = "last_active"
	FieldGender          = "gender"
	FieldHeight          = "height"
	FieldDOB             = "dob"
	FieldAge             = "age"
	FieldCurrentLocation = "current_location"
	FieldAnnualIncome    = "annual_income"
	FieldReligion        = "religion"
	FieldCaste           = "caste"
	FieldMaritalStatus   = "marital_status"
	FieldFitness         = "fitness"
	FieldReligiosity     = "religiosity"
	FieldSmoking         = "smoking"
	FieldDrinking        = "drinking"
	FieldFamilyType      = "family_type"
	FieldFoodHabits      = "food_habits"
	FieldIntent          = "intent"
	FieldOpenToChildren  = "open_to_children"
	FieldProfession      = "profession"
	FieldProfessionHash  = "profession_hash"
	FieldEducation       = "education"
	FieldEducationHash   = "education_hash"
	FieldVibeReport      = "vibe_report"
	FieldVibeReportHash  = "vibe_report_hash"
	FieldBlurb           = "blurb"
	FieldProfileHook     = "profile_hook"
	FieldLifeStyleTags   = "life_style_tags"
	FieldInterests       = "interests"
	FieldPhotoCollection = "photo_collection"
)

// Vector space names in the index.
const (
	VectorEducation  = "education"
	VectorProfession = "profession"
	VectorVibeReport = "vibe_report"
)

// Photo is a resolved showcase photo with its public URL.
type Photo struct {
	ShowCaseID string
	URL        string
}

// Profile is the canonical indexed record. Empty strings mean "not set";
// pointer fields distinguish absent from zero where the zero is meaningful.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Name      string

	IsCirculateable bool
	IsPaused        bool
	TestLead        bool
	LastActive      *time.Time

	Gender          string
	Height          int
	DOB             string
	Age             *int
	CurrentLocation string
	AnnualIncome    *float64

	Religion       string
	Caste          string
	MaritalStatus  string
	Fitness        string
	Religiosity    string
	Smoking        string
	Drinking       string
	FamilyType     string
	FoodHabits     string
	Intent         string
	OpenToChildren string

	Profession     string
	ProfessionHash string
	Education      string
	EducationHash  string
	VibeReport     string
	VibeReportHash string

	Blurb         string
	ProfileHook   string
	LifeStyleTags []string
	Interests     []string
	Photos        []Photo
}

// PhotoIDs returns the showcase ids of the resolved photos, in order.
func (p Profile) PhotoIDs() []string {
	ids := make([]string, len(p.Photos))
	for i, ph := range p.Photos {
		ids[i] = ph.ShowCaseID
	}
	return ids
}

// Payload serializes the full record into an index payload map.
// Every field is present; unset optional fields are written as nil.
func (p Profile) Payload() map[string]any {
	return map[string]any{
		FieldID:              p.ID,
		FieldFirstName:       strOrNil(p.FirstName),
		FieldLastName:        strOrNil(p.LastName),
		FieldName:            strOrNil(p.Name),
		FieldIsCirculateable: p.IsCirculateable,
		FieldIsPaused:        p.IsPaused,
		FieldTestLead:        p.TestLead,
		FieldLastActive:      timeOrNil(p.LastActive),
		FieldGender:          p.Gender,
		FieldHeight:          p.Height,
		FieldDOB:             p.DOB,
		FieldAge:             intOrNil(p.Age),
		FieldCurrentLocation: p.CurrentLocation,
		FieldAnnualIncome:    floatOrNil(p.AnnualIncome),
		FieldReligion:        p.Religion,
		FieldCaste:           strOrNil(p.Caste),
		FieldMaritalStatus:   strOrNil(p.MaritalStatus),
		FieldFitness:         strOrNil(p.Fitness),
		FieldReligiosity:     strOrNil(p.Religiosity),
		FieldSmoking:         strOrNil(p.Smoking),
		FieldDrinking:        strOrNil(p.Drinking),
		FieldFamilyType:      strOrNil(p.FamilyType),
		FieldFoodHabits:      strOrNil(p.FoodHabits),
		FieldIntent:          strOrNil(p.Intent),
		FieldOpenToChildren:  strOrNil(p.OpenToChildren),
		FieldProfession:      strOrNil(p.Profession),
		FieldProfessionHash:  strOrNil(p.ProfessionHash),
		FieldEducation:       strOrNil(p.Education),
		FieldEducationHash:   strOrNil(p.EducationHash),
		FieldVibeReport:      strOrNil(p.VibeReport),
		FieldVibeReportHash:  strOrNil(p.VibeReportHash),
		FieldBlurb:           strOrNil(p.Blurb),
		FieldProfileHook:     strOrNil(p.ProfileHook),
		FieldLifeStyleTags:   stringsOrEmpty(p.LifeStyleTags),
		FieldInterests:       stringsOrEmpty(p.Interests),
		FieldPhotoCollection: photosPayload(p.Photos),
	}
}

// FromPayload hydrates a Profile from an index payload map.
// Missing and nil values decode to the field's "not set" form.
func FromPayload(payload map[string]any) Profile {
	return Profile{
		ID:              asString(payload[FieldID]),
		FirstName:       asString(payload[FieldFirstName]),
		LastName:        asString(payload[FieldLastName]),
		Name:            asString(payload[FieldName]),
		IsCirculateable: asBool(payload[FieldIsCirculateable]),
		IsPaused:        asBool(payload[FieldIsPaused]),
		TestLead:        asBool(payload[FieldTestLead]),
		LastActive:      asTime(payload[FieldLastActive]),
		Gender:          asString(payload[FieldGender]),
		Height:          asInt(payload[FieldHeight]),
		DOB:             asString(payload[FieldDOB]),
		Age:             asIntPtr(payload[FieldAge]),
		CurrentLocation: asString(payload[FieldCurrentLocation]),
		AnnualIncome:    asFloatPtr(payload[FieldAnnualIncome]),
		Religion:        asString(payload[FieldReligion]),
		Caste:           asString(payload[FieldCaste]),
		MaritalStatus:   asString(payload[FieldMaritalStatus]),
		Fitness:         asString(payload[FieldFitness]),
		Religiosity:     asString(payload[FieldReligiosity]),
		Smoking:         asString(payload[FieldSmoking]),
		Drinking:        asString(payload[FieldDrinking]),
		FamilyType:      asString(payload[FieldFamilyType]),
		FoodHabits:      asString(payload[FieldFoodHabits]),
		Intent:          asString(payload[FieldIntent]),
		OpenToChildren:  asString(payload[FieldOpenToChildren]),
		Profession:      asString(payload[FieldProfession]),
		ProfessionHash:  asString(payload[FieldProfessionHash]),
		Education:       asString(payload[FieldEducation]),
		EducationHash:   asString(payload[FieldEducationHash]),
		VibeReport:      asString(payload[FieldVibeReport]),
		VibeReportHash:  asString(payload[FieldVibeReportHash]),
		Blurb:           asString(payload[FieldBlurb]),
		ProfileHook:     asString(payload[FieldProfileHook]),
		LifeStyleTags:   asStrings(payload[FieldLifeStyleTags]),
		Interests:       asStrings(payload[FieldInterests]),
		Photos:          photosFromPayload(payload[FieldPhotoCollection]),
	}
}

func photosPayload(photos []Photo) []any {
	out := make([]any, len(photos))
	for i, ph := range photos {
		out[i] = map[string]any{
			"show_case_id": ph.ShowCaseID,
			"url":          ph.URL,
		}
	}
	return out
}

func photosFromPayload(v any) []Photo {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	photos := make([]Photo, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		photos = append(photos, Photo{
			ShowCaseID: asString(m["show_case_id"]),
			URL:        asString(m["url"]),
		})
	}
	return photos
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func stringsOrEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asIntPtr(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

func asFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

func asStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
