// Package reconcile decides, per ingested profile, which derived fields
// need re-embedding versus a plain payload patch, and whether the volatile
// last-active timestamp is worth writing.
package reconcile

import (
	"reflect"
	"time"

	"github.com/kailas-cloud/matchdex/internal/domain/profile"
)

// LastActiveThreshold is the minimum drift before a sole last-active
// change is written.
const LastActiveThreshold = 2 * time.Hour

// Decision classifies an ingestion against the stored state.
type Decision string

const (
	// DecisionSkip drops the ingestion: ineligible profiles are never
	// created.
	DecisionSkip Decision = "skip"
	// DecisionMarkIneligible patches only the eligibility flag to false.
	DecisionMarkIneligible Decision = "mark_ineligible"
	// DecisionFullUpsert rebuilds every derived field, vector and the
	// full payload.
	DecisionFullUpsert Decision = "full_upsert"
	// DecisionSmartUpdate applies the minimal diff.
	DecisionSmartUpdate Decision = "smart_update"
)

// Decide maps (stored state, eligibility, force flag) onto the ingestion
// outcome.
func Decide(exists, eligible, force bool) Decision {
	if !eligible {
		if exists {
			return DecisionMarkIneligible
		}
		return DecisionSkip
	}
	if !exists || force {
		return DecisionFullUpsert
	}
	return DecisionSmartUpdate
}

// IneligiblePatch is the payload patch for a present, ineligible profile.
// Nothing else is touched.
func IneligiblePatch() map[string]any {
	return map[string]any{profile.FieldIsCirculateable: false}
}

// comparedFields are the non-narrative attributes diffed field by field.
// Derived texts, their hashes and last_active follow their own policies.
var comparedFields = []string{
	profile.FieldIsCirculateable,
	profile.FieldIsPaused,
	profile.FieldTestLead,
	profile.FieldGender,
	profile.FieldHeight,
	profile.FieldDOB,
	profile.FieldAge,
	profile.FieldCurrentLocation,
	profile.FieldAnnualIncome,
	profile.FieldReligion,
	profile.FieldCaste,
	profile.FieldMaritalStatus,
	profile.FieldFitness,
	profile.FieldReligiosity,
	profile.FieldSmoking,
	profile.FieldDrinking,
	profile.FieldFamilyType,
	profile.FieldFoodHabits,
	profile.FieldIntent,
	profile.FieldOpenToChildren,
	profile.FieldBlurb,
	profile.FieldInterests,
	profile.FieldPhotoCollection,
}

// Diff is the minimal update set of a smart update: payload patches,
// texts whose vectors must be regenerated, and whether the narrative
// field is still owed its one-time generation.
type Diff struct {
	payload        map[string]any
	embed          map[string]string
	needsNarrative bool
}

// Compute diffs an incoming profile against the stored one.
//
// Derived structured texts are compared by content hash; a mismatch
// patches text and hash, and schedules re-embedding when the new text is
// non-empty (an emptied field keeps its stale vector but stops matching
// payload-wise, same as a full rebuild would only fix on force).
//
// The narrative field is generate-once: it is owed generation exactly
// when no stored hash exists, and never regenerated otherwise.
func Compute(existing, incoming profile.Profile) Diff {
	d := Diff{
		payload: make(map[string]any),
		embed:   make(map[string]string),
	}
	in := incoming.Payload()
	ex := existing.Payload()

	if incoming.EducationHash != existing.EducationHash {
		d.payload[profile.FieldEducation] = in[profile.FieldEducation]
		d.payload[profile.FieldEducationHash] = in[profile.FieldEducationHash]
		if incoming.Education != "" {
			d.embed[profile.VectorEducation] = incoming.Education
		}
	}

	if incoming.ProfessionHash != existing.ProfessionHash {
		d.payload[profile.FieldProfession] = in[profile.FieldProfession]
		d.payload[profile.FieldProfessionHash] = in[profile.FieldProfessionHash]
		if incoming.Profession != "" {
			d.embed[profile.VectorProfession] = incoming.Profession
		}
	}

	d.needsNarrative = existing.VibeReportHash == ""

	for _, field := range comparedFields {
		if !reflect.DeepEqual(in[field], ex[field]) {
			d.payload[field] = in[field]
		}
	}

	return d
}

// Payload returns the payload patches.
func (d Diff) Payload() map[string]any { return d.payload }

// EmbedTexts returns the texts to re-embed, keyed by vector space.
func (d Diff) EmbedTexts() map[string]string { return d.embed }

// NeedsNarrative reports whether the narrative field is owed its one-time
// generation.
func (d Diff) NeedsNarrative() bool { return d.needsNarrative }

// HasChanges reports whether any payload patch or re-embedding is due.
func (d Diff) HasChanges() bool { return len(d.payload) > 0 || len(d.embed) > 0 }

// ShouldUpdateLastActive applies the debounce policy: never without an
// incoming value; always when nothing is stored; alongside other changes
// whenever the value differs at all; as the sole change only when the
// drift exceeds LastActiveThreshold.
func ShouldUpdateLastActive(incoming, stored *time.Time, hasOtherUpdates bool) bool {
	if incoming == nil {
		return false
	}
	if stored == nil {
		return true
	}
	if hasOtherUpdates {
		return !incoming.Equal(*stored)
	}
	drift := incoming.Sub(*stored)
	if drift < 0 {
		drift = -drift
	}
	return drift > LastActiveThreshold
}
