package profile

import (
	"crypto/md5" //nolint:gosec // change-detection fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"sort"
)

// ContentHash fingerprints a derived text field for change detection.
// Empty text carries no hash.
func ContentHash(text string) string {
	if text == "" {
		return ""
	}
	sum := md5.Sum([]byte(text)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// NarrativeInputHash fingerprints the inputs of narrative generation:
// derived texts, interests, blurb and the sorted photo ids. Photo URLs are
// excluded on purpose, they churn independently of content. Hashing inputs
// rather than the generated output keeps non-deterministic generation from
// ever looking like a change.
func (p Profile) NarrativeInputHash() string {
	photoIDs := p.PhotoIDs()
	sort.Strings(photoIDs)

	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}

	inputs := map[string]any{
		"education":  p.Education,
		"profession": p.Profession,
		"interests":  interests,
		"blurb":      p.Blurb,
		"photo_ids":  photoIDs,
	}
	// Keys marshal in sorted order, so the encoding is canonical.
	encoded, err := json.Marshal(inputs)
	if err != nil {
		return ""
	}
	sum := md5.Sum(encoded) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
