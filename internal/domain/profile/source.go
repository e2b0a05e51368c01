package profile

import (
	"strings"
	"time"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Source mirrors the upstream ingestion document (camelCase JSON).
type Source struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`

	IsQL             bool          `json:"isQL"`
	IsActive         bool          `json:"isActive"`
	IsVerified       bool          `json:"isVerified"`
	IsNonServiceable bool          `json:"isNonServiceable"`
	IsSoftDeleted    bool          `json:"isSoftDeleted"`
	PauseDetails     *PauseDetails `json:"pauseDetails,omitempty"`
	OnboardedOn      *time.Time    `json:"onboardedOn,omitempty"`
	TestLead         bool          `json:"testLead"`

	ForceUpdate                bool `json:"forceUpdate"`
	HasInstalledApp            bool `json:"hasInstalledApp"`
	IsAboutYouFormFilled       bool `json:"isAboutYouFormFilled"`
	IsPhotoCollectionSubmitted bool `json:"isPhotoCollectionSubmitted"`

	Gender          string   `json:"gender"`
	Height          int      `json:"height"`
	DOB             string   `json:"dob"`
	CurrentLocation string   `json:"currentLocation"`
	AnnualIncome    *float64 `json:"annualIncome,omitempty"`

	Religion       string `json:"religion"`
	Caste          string `json:"caste,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	Fitness        string `json:"fitness,omitempty"`
	Religiosity    string `json:"religiosity,omitempty"`
	Smoking        string `json:"smoking,omitempty"`
	Drinking       string `json:"drinking,omitempty"`
	FoodHabits     string `json:"foodHabits,omitempty"`
	Intent         string `json:"intent,omitempty"`
	OpenToChildren string `json:"openToChildren,omitempty"`
	FamilyType     string `json:"familyType,omitempty"`

	AppVersionDetails AppVersionDetails `json:"appVersionDetails"`

	EducationDetails                []EducationDetail  `json:"educationDetails,omitempty"`
	ProfessionalJourneyDetails      []ProfessionDetail `json:"professionalJourneyDetails,omitempty"`
	HighlightedProfessionalDetailID string             `json:"highlightedProfessionalDetailId,omitempty"`

	SimilarInterestsV2 []string   `json:"similarInterestsV2,omitempty"`
	Blurb              string     `json:"blurb,omitempty"`
	PhotoCollection    []PhotoDoc `json:"photoCollection,omitempty"`
	ShowCaseProfileIDs []string   `json:"showCaseProfileIds,omitempty"`
}

// PauseDetails carries the upstream pause flag.
type PauseDetails struct {
	IsPaused bool `json:"isPaused"`
}

// AppVersionDetails carries the last-active timestamp.
type AppVersionDetails struct {
	LastUpdatedOn *time.Time `json:"lastUpdatedOn,omitempty"`
}

// EducationDetail is one upstream education entry.
type EducationDetail struct {
	ID           string `json:"id,omitempty"`
	College      string `json:"college,omitempty"`
	CollegeOther string `json:"collegeOther,omitempty"`
	Degree       string `json:"degree,omitempty"`
	DegreeOther  string `json:"degreeOther,omitempty"`
}

// ProfessionDetail is one upstream professional journey entry.
type ProfessionDetail struct {
	ID               string `json:"id,omitempty"`
	Company          string `json:"company,omitempty"`
	CompanyOther     string `json:"companyOther,omitempty"`
	Designation      string `json:"designation,omitempty"`
	DesignationOther string `json:"designationOther,omitempty"`
}

// PhotoDoc is one upstream photo document.
type PhotoDoc struct {
	Key        string `json:"key,omitempty"`
	CroppedKey string `json:"croppedKey,omitempty"`
	IsRemoved  bool   `json:"isRemoved"`
	ShowCaseID string `json:"showCaseId,omitempty"`
	MediaID    string `json:"mediaId,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
}

const mediaTypeJPEG = "IMAGE_JPEG"

// Transform derives the canonical Profile from the source document.
// The external id is required; photo URLs are resolved against cdnBaseURL.
func (s Source) Transform(cdnBaseURL string, now time.Time) (Profile, error) {
	if s.ID == "" {
		return Profile{}, domain.ErrMissingProfileID
	}

	isPaused := false
	if s.PauseDetails != nil {
		isPaused = s.PauseDetails.IsPaused
	}
	isCirculateable := s.IsQL &&
		s.IsActive &&
		s.IsVerified &&
		s.OnboardedOn != nil &&
		!s.IsNonServiceable &&
		!s.IsSoftDeleted &&
		!isPaused &&
		!s.TestLead

	name := s.Name
	if name == "" && (s.FirstName != "" || s.LastName != "") {
		name = strings.TrimSpace(s.FirstName + " " + s.LastName)
	}

	profession := s.professionText()
	education := s.educationText()

	return Profile{
		ID:              s.ID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Name:            name,
		IsCirculateable: isCirculateable,
		IsPaused:        isPaused,
		TestLead:        s.TestLead,
		LastActive:      s.AppVersionDetails.LastUpdatedOn,
		Gender:          s.Gender,
		Height:          s.Height,
		DOB:             s.DOB,
		Age:             computeAge(s.DOB, now),
		CurrentLocation: s.CurrentLocation,
		AnnualIncome:    s.AnnualIncome,
		Religion:        s.Religion,
		Caste:           s.Caste,
		MaritalStatus:   s.MaritalStatus,
		Fitness:         s.Fitness,
		Religiosity:     s.Religiosity,
		Smoking:         s.Smoking,
		Drinking:        s.Drinking,
		FamilyType:      s.FamilyType,
		FoodHabits:      s.FoodHabits,
		Intent:          s.Intent,
		OpenToChildren:  s.OpenToChildren,
		Profession:      profession,
		ProfessionHash:  ContentHash(profession),
		Education:       education,
		EducationHash:   ContentHash(education),
		Interests:       s.SimilarInterestsV2,
		Blurb:           s.Blurb,
		Photos:          s.resolvePhotos(cdnBaseURL),
	}, nil
}

// professionText formats the highlighted professional journey entry, or the
// last one when nothing is highlighted, as "{designation} at {company}".
// The *Other free-text fields win over the catalog fields.
func (s Source) professionText() string {
	if len(s.ProfessionalJourneyDetails) == 0 {
		return ""
	}

	var selected *ProfessionDetail
	if s.HighlightedProfessionalDetailID != "" {
		for i := range s.ProfessionalJourneyDetails {
			if s.ProfessionalJourneyDetails[i].ID == s.HighlightedProfessionalDetailID {
				selected = &s.ProfessionalJourneyDetails[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &s.ProfessionalJourneyDetails[len(s.ProfessionalJourneyDetails)-1]
	}

	designation := selected.DesignationOther
	if designation == "" {
		designation = selected.Designation
	}
	company := selected.CompanyOther
	if company == "" {
		company = selected.Company
	}

	switch {
	case designation != "" && company != "":
		return designation + " at " + company
	case designation != "":
		return designation
	case company != "":
		return company
	}
	return ""
}

// educationText formats every education entry as "{degree} from {college}",
// joined by "; ". The *Other free-text fields win over the catalog fields.
func (s Source) educationText() string {
	var parts []string
	for _, edu := range s.EducationDetails {
		degree := edu.DegreeOther
		if degree == "" {
			degree = edu.Degree
		}
		college := edu.CollegeOther
		if college == "" {
			college = edu.College
		}

		switch {
		case degree != "" && college != "":
			parts = append(parts, degree+" from "+college)
		case degree != "":
			parts = append(parts, degree)
		case college != "":
			parts = append(parts, college)
		}
	}
	return strings.Join(parts, "; ")
}

// resolvePhotos picks, per showcase id, the first non-removed photo matching
// by showcase id, then by media id for JPEG media. The cropped key wins over
// the original key when building the URL.
func (s Source) resolvePhotos(cdnBaseURL string) []Photo {
	if len(s.PhotoCollection) == 0 || len(s.ShowCaseProfileIDs) == 0 {
		return nil
	}

	kept := make([]PhotoDoc, 0, len(s.PhotoCollection))
	for _, p := range s.PhotoCollection {
		if !p.IsRemoved {
			kept = append(kept, p)
		}
	}

	var photos []Photo
	for _, showcaseID := range s.ShowCaseProfileIDs {
		var matched *PhotoDoc
		for i := range kept {
			if kept[i].ShowCaseID == showcaseID {
				matched = &kept[i]
				break
			}
		}
		if matched == nil {
			for i := range kept {
				if kept[i].MediaID == showcaseID && kept[i].MediaType == mediaTypeJPEG {
					matched = &kept[i]
					break
				}
			}
		}
		if matched == nil || matched.Key == "" {
			continue
		}

		key := matched.CroppedKey
		if key == "" {
			key = matched.Key
		}
		photos = append(photos, Photo{
			ShowCaseID: showcaseID,
			URL:        cdnBaseURL + "/" + key,
		})
	}
	return photos
}

// computeAge derives age in full years from a "YYYY-MM-DD" date of birth.
// Unparseable input yields nil.
func computeAge(dob string, now time.Time) *int {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return &age
}
