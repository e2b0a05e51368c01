package profile

import "testing"

func TestContentHash(t *testing.T) {
	if got := ContentHash("B.Tech from IIT Delhi"); got != "99fdcefb9df43ab6101131e853c4955f" {
		t.Errorf("ContentHash = %q, want 99fdcefb9df43ab6101131e853c4955f", got)
	}
	if got := ContentHash("Director at Google"); got != "7bd3919bea46f4ea467dc5a19749d041" {
		t.Errorf("ContentHash = %q, want 7bd3919bea46f4ea467dc5a19749d041", got)
	}
}

func TestContentHash_EmptyTextHasNoHash(t *testing.T) {
	if got := ContentHash(""); got != "" {
		t.Errorf("ContentHash(\"\") = %q, want empty", got)
	}
}

func TestNarrativeInputHash_Known(t *testing.T) {
	p := Profile{
		Education:  "B.Tech from IIT Delhi",
		Profession: "Director at Google",
		Interests:  []string{"Chess"},
		Blurb:      "hi",
		Photos: []Photo{
			{ShowCaseID: "p2", URL: "https://cdn.example.com/b.jpg"},
			{ShowCaseID: "p1", URL: "https://cdn.example.com/a.jpg"},
		},
	}
	want := "836ace2be3db3d282fbe93a39f6c1b29"
	if got := p.NarrativeInputHash(); got != want {
		t.Errorf("NarrativeInputHash = %q, want %q", got, want)
	}
}

func TestNarrativeInputHash_IgnoresPhotoURLs(t *testing.T) {
	base := Profile{
		Education: "B.Tech",
		Photos:    []Photo{{ShowCaseID: "p1", URL: "https://cdn.example.com/v1/a.jpg"}},
	}
	churned := base
	churned.Photos = []Photo{{ShowCaseID: "p1", URL: "https://cdn.example.com/v2/a.jpg"}}

	if base.NarrativeInputHash() != churned.NarrativeInputHash() {
		t.Error("URL churn changed the narrative input hash")
	}
}

func TestNarrativeInputHash_PhotoOrderInsensitive(t *testing.T) {
	a := Profile{Photos: []Photo{{ShowCaseID: "p1"}, {ShowCaseID: "p2"}}}
	b := Profile{Photos: []Photo{{ShowCaseID: "p2"}, {ShowCaseID: "p1"}}}
	if a.NarrativeInputHash() != b.NarrativeInputHash() {
		t.Error("photo order changed the narrative input hash")
	}
}

func TestNarrativeInputHash_SensitiveToInputs(t *testing.T) {
	a := Profile{Education: "B.Tech", Blurb: "hi"}
	b := Profile{Education: "B.Tech", Blurb: "hello"}
	if a.NarrativeInputHash() == b.NarrativeInputHash() {
		t.Error("blurb change did not change the narrative input hash")
	}
}
