package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

const testCDN = "https://cdn.example.com"

func eligibleSource() Source {
	onboarded := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return Source{
		ID:              "profile-123",
		FirstName:       "Asha",
		LastName:        "Rao",
		IsQL:            true,
		IsActive:        true,
		IsVerified:      true,
		OnboardedOn:     &onboarded,
		Gender:          "female",
		Height:          64,
		DOB:             "1995-06-15",
		CurrentLocation: "Bangalore",
		Religion:        "HI",
	}
}

func transform(t *testing.T, s Source) Profile {
	t.Helper()
	p, err := s.Transform(testCDN, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return p
}

func TestTransform_MissingID(t *testing.T) {
	s := eligibleSource()
	s.ID = ""
	_, err := s.Transform(testCDN, time.Now())
	if !errors.Is(err, domain.ErrMissingProfileID) {
		t.Fatalf("err = %v, want ErrMissingProfileID", err)
	}
}

func TestTransform_Eligible(t *testing.T) {
	p := transform(t, eligibleSource())
	if !p.IsCirculateable {
		t.Error("IsCirculateable = false, want true")
	}
	if p.IsPaused {
		t.Error("IsPaused = true, want false")
	}
}

func TestTransform_EligibilityFlags(t *testing.T) {
	breakers := map[string]func(*Source){
		"not ql":          func(s *Source) { s.IsQL = false },
		"inactive":        func(s *Source) { s.IsActive = false },
		"unverified":      func(s *Source) { s.IsVerified = false },
		"not onboarded":   func(s *Source) { s.OnboardedOn = nil },
		"non serviceable": func(s *Source) { s.IsNonServiceable = true },
		"soft deleted":    func(s *Source) { s.IsSoftDeleted = true },
		"paused":          func(s *Source) { s.PauseDetails = &PauseDetails{IsPaused: true} },
		"test lead":       func(s *Source) { s.TestLead = true },
	}
	for name, sabotage := range breakers {
		s := eligibleSource()
		sabotage(&s)
		p := transform(t, s)
		if p.IsCirculateable {
			t.Errorf("%s: IsCirculateable = true, want false", name)
		}
	}
}

func TestTransform_PauseCarriedToProfile(t *testing.T) {
	s := eligibleSource()
	s.PauseDetails = &PauseDetails{IsPaused: true}
	p := transform(t, s)
	if !p.IsPaused {
		t.Error("IsPaused = false, want true")
	}
}

func TestTransform_NameFromParts(t *testing.T) {
	s := eligibleSource()
	p := transform(t, s)
	if p.Name != "Asha Rao" {
		t.Errorf("Name = %q, want %q", p.Name, "Asha Rao")
	}

	s.Name = "Custom Name"
	p = transform(t, s)
	if p.Name != "Custom Name" {
		t.Errorf("explicit name overridden: %q", p.Name)
	}

	s = eligibleSource()
	s.LastName = ""
	p = transform(t, s)
	if p.Name != "Asha" {
		t.Errorf("Name = %q, want %q", p.Name, "Asha")
	}
}

func TestTransform_Age(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	s := eligibleSource()
	s.DOB = "1995-06-15" // birthday already passed this year
	p, _ := s.Transform(testCDN, now)
	if p.Age == nil || *p.Age != 30 {
		t.Errorf("Age = %v, want 30", p.Age)
	}

	s.DOB = "1995-09-15" // birthday still ahead
	p, _ = s.Transform(testCDN, now)
	if p.Age == nil || *p.Age != 29 {
		t.Errorf("Age = %v, want 29", p.Age)
	}

	s.DOB = "not-a-date"
	p, _ = s.Transform(testCDN, now)
	if p.Age != nil {
		t.Errorf("Age = %v, want nil for unparseable dob", *p.Age)
	}
}

func TestTransform_ProfessionText(t *testing.T) {
	s := eligibleSource()
	s.ProfessionalJourneyDetails = []ProfessionDetail{
		{ID: "j1", Company: "Acme", Designation: "Engineer"},
		{ID: "j2", Company: "Google", Designation: "Director"},
	}
	p := transform(t, s)
	if p.Profession != "Director at Google" {
		t.Errorf("Profession = %q, want %q", p.Profession, "Director at Google")
	}
	if p.ProfessionHash != "7bd3919bea46f4ea467dc5a19749d041" {
		t.Errorf("ProfessionHash = %q", p.ProfessionHash)
	}
}

func TestTransform_ProfessionHighlighted(t *testing.T) {
	s := eligibleSource()
	s.ProfessionalJourneyDetails = []ProfessionDetail{
		{ID: "j1", Company: "Acme", Designation: "Engineer"},
		{ID: "j2", Company: "Google", Designation: "Director"},
	}
	s.HighlightedProfessionalDetailID = "j1"
	p := transform(t, s)
	if p.Profession != "Engineer at Acme" {
		t.Errorf("Profession = %q, want highlighted entry", p.Profession)
	}
}

func TestTransform_ProfessionOtherFieldsWin(t *testing.T) {
	s := eligibleSource()
	s.ProfessionalJourneyDetails = []ProfessionDetail{
		{Company: "OTHER", CompanyOther: "My Startup", Designation: "OTHER", DesignationOther: "Founder"},
	}
	p := transform(t, s)
	if p.Profession != "Founder at My Startup" {
		t.Errorf("Profession = %q, want %q", p.Profession, "Founder at My Startup")
	}
}

func TestTransform_ProfessionPartial(t *testing.T) {
	s := eligibleSource()
	s.ProfessionalJourneyDetails = []ProfessionDetail{{Designation: "Consultant"}}
	p := transform(t, s)
	if p.Profession != "Consultant" {
		t.Errorf("Profession = %q, want %q", p.Profession, "Consultant")
	}

	s.ProfessionalJourneyDetails = []ProfessionDetail{{Company: "Acme"}}
	p = transform(t, s)
	if p.Profession != "Acme" {
		t.Errorf("Profession = %q, want %q", p.Profession, "Acme")
	}

	s.ProfessionalJourneyDetails = nil
	p = transform(t, s)
	if p.Profession != "" || p.ProfessionHash != "" {
		t.Errorf("Profession = %q hash %q, want empty", p.Profession, p.ProfessionHash)
	}
}

func TestTransform_EducationText(t *testing.T) {
	s := eligibleSource()
	s.EducationDetails = []EducationDetail{
		{Degree: "B.Tech", College: "IIT Delhi"},
		{DegreeOther: "MBA", CollegeOther: "IIM Bangalore"},
		{College: "Open University"},
	}
	p := transform(t, s)
	want := "B.Tech from IIT Delhi; MBA from IIM Bangalore; Open University"
	if p.Education != want {
		t.Errorf("Education = %q, want %q", p.Education, want)
	}
	if p.EducationHash == "" {
		t.Error("EducationHash empty for non-empty education")
	}
}

func TestTransform_Photos(t *testing.T) {
	s := eligibleSource()
	s.PhotoCollection = []PhotoDoc{
		{Key: "a.jpg", ShowCaseID: "sc1"},
		{Key: "b.jpg", CroppedKey: "b_crop.jpg", ShowCaseID: "sc2"},
		{Key: "gone.jpg", ShowCaseID: "sc3", IsRemoved: true},
		{Key: "c.jpg", MediaID: "m4", MediaType: "IMAGE_JPEG"},
		{Key: "d.mp4", MediaID: "m5", MediaType: "VIDEO_MP4"},
	}
	s.ShowCaseProfileIDs = []string{"sc1", "sc2", "sc3", "m4", "m5"}

	p := transform(t, s)
	if len(p.Photos) != 3 {
		t.Fatalf("Photos len = %d, want 3: %+v", len(p.Photos), p.Photos)
	}
	if p.Photos[0].URL != testCDN+"/a.jpg" {
		t.Errorf("Photos[0].URL = %q", p.Photos[0].URL)
	}
	// cropped key preferred
	if p.Photos[1].URL != testCDN+"/b_crop.jpg" {
		t.Errorf("Photos[1].URL = %q, want cropped key", p.Photos[1].URL)
	}
	// matched by media id for JPEG media
	if p.Photos[2].ShowCaseID != "m4" || p.Photos[2].URL != testCDN+"/c.jpg" {
		t.Errorf("Photos[2] = %+v", p.Photos[2])
	}
}

func TestTransform_PhotosEmptyWithoutShowcase(t *testing.T) {
	s := eligibleSource()
	s.PhotoCollection = []PhotoDoc{{Key: "a.jpg", ShowCaseID: "sc1"}}
	s.ShowCaseProfileIDs = nil
	p := transform(t, s)
	if len(p.Photos) != 0 {
		t.Errorf("Photos len = %d, want 0", len(p.Photos))
	}
}
