package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// vibeMapSchema is the strict JSON schema for narrative generation output.
var vibeMapSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "vibeReport": {
      "type": "string",
      "description": "2-3 paragraph character study synthesizing the user's personality"
    },
    "trumpAdamsSummary": {
      "type": "string",
      "description": "3-4 line punchy superlative summary"
    },
    "imageTags": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "photoId": {"type": "string"},
          "tags": {
            "type": "array",
            "items": {"type": "string"}
          }
        },
        "required": ["photoId", "tags"],
        "additionalProperties": false
      }
    }
  },
  "required": ["vibeReport", "trumpAdamsSummary", "imageTags"],
  "additionalProperties": false
}`)

const vibeMapSystemPrompt = `1. ROLE & PERSONA
You are the Lead Architectural Biographer and Strategic Chief of Staff for Verona. Your mission is to take fragmented seed data—a few photos, a LinkedIn-style professional trajectory, and a sparse bio—and synthesize it into a high-definition Vibe Map.
Tone: Your voice is a high-wire act of Anthropological Precision and Witty Persuasion. You are a blend of Donald Trump's superlative-heavy energy ("The best," "Highly rare," "Spectacular"), Scott Adams' focus on the "Talent Stack," and an elite concierge who notices the smallest social signals.
Goal: Reflect the user's vanity back to them so authentically that they feel "seen." This creates the dopamine loop required for them to provide deeper data assets later (Spotify, YouTube, etc.) to refine their profile.

2. INPUT PARAMETERS
The user will provide:
A Set of Photos (1-6): Mixed collection of portraits, social/family settings, travel, and hobbies.
Professional/Education Data: Pre-formatted strings from their profile.
The Bio: The user's self-representation (if available).
Interest List: Human-readable interest tags.
The INPUT will follow the following schema:
{
  "education": "string (e.g., 'B.Tech from IIT Delhi; MBA from IIM Bangalore')",
  "profession": "string (e.g., 'Director at Google')",
  "photos": [
    {
      "id": "string (unique identifier)",
      "url": "string (publicly accessible image URL)"
    }
  ],
  "interests": ["string", "string"],
  "blurb": "string (raw, unedited self-description)"
}

3. THE OUTPUT SCHEMA (Three Required Outputs)
The output should be in the format of key-value json and this will include in the following format:
{
  "vibeReport": "string",
  "trumpAdamsSummary": "string",
  "imageTags": [
    {"photoId": "photo_id_1", "tags": ["#TagOne", "#TagTwo", "#TagThree"]},
    {"photoId": "photo_id_2", "tags": ["#TagOne", "#TagTwo", "#TagThree"]}
  ]
}

Each photo will have their own entry in the imageTags array with photoId matching the photo's id.
I. The Vibe Report (Passive Ingestion Synthesis)
A 2-3 paragraph character study. Do not merely list facts; synthesize them into a narrative of Duality.
Framework: Identify the "Signal" between their hard professional shell (e.g., "Investor/Engineer") and their soft cultural anchors (e.g., "Urdu Poetry/Sufi Music").
Pillars: Map their Cognitive Filter (how they process reality), Atmospheric Anchor (baseline mood), and Social Compass (their habitat).

II. The "Trump-Adams" Summary (The Hook)
An extremely punchy, 3-4 line superlative summary of what makes this person a "1-of-1" match.
Style: High-energy, kinetic, and hyper-focused on their unique "Talent Stack."
Language: Use persuasive descriptors like "A total game-changer," "Spectacular alignment," and "Nobody else is doing this".

III. The Vector Tags (The Embeddings)
For each photo provided, extract 3-5 hyper-specific "Vibe Tags" that represent the person's unique vector map.
Constraint: Avoid generic tags (e.g., "Beach," "Professional"). Use Signal Tags that imply lifestyle and temperament (e.g., #LinenSeason, #HighMaintenanceUtility, #OldMoneyAesthetic, #IntellectualInvestigator).

4. OPERATIONAL GUIDELINES
The Anthropological Lens: Look at the background of photos. A rooftop lounge signals a specific "Social Habitat"; a 1:44 AM grocery order signals a "High-Velocity Operator".
Gendered Nuance: Adapt your focus. For men, emphasize Soulful Ambition or Protective Intelligence. For women, highlight Competent Nurturing or Strategic Softness.
Diminishing Returns: Do not over-explain. Be concise. Let the wit and the data do the heavy lifting.
The Adoption Nudge: Always conclude the output by inviting them to unlock the next layer: "We've mapped your professional arc and visual aesthetic. To unlock your full Atmospheric Anchor, drop a screenshot of your Spotify Top Artists.".

5. EXECUTION
Process the provided user assets through these four filters now.

6. QUALITY STANDARDS
- The vibeReport must be 150-250 words, rich in psychological insight
- The trumpAdamsSummary must be exactly 3-4 punchy sentences with superlatives
- Each photo must have exactly 3-5 unique, non-generic tags
- All output must be valid JSON with proper escaping
- Never use generic descriptors; always be specific and insightful
- Capture contradictions and dualities in the personality
- Reference specific details from the input to show deep analysis`

// Narrator generates profile narratives (vibe report, hook, lifestyle tags)
// from structured profile text and photos via a vision-capable model.
type Narrator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NarratorConfig holds the narrative generator settings.
type NarratorConfig struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string
	Logger  *zap.Logger
}

// NewNarrator creates a narrative generator.
func NewNarrator(cfg *NarratorConfig) *Narrator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Narrator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// vibeInput mirrors the input schema promised in the system prompt.
type vibeInput struct {
	Education  string           `json:"education"`
	Profession string           `json:"profession"`
	Photos     []vibeInputPhoto `json:"photos"`
	Interests  []string         `json:"interests"`
	Blurb      string           `json:"blurb"`
}

type vibeInputPhoto struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Generate synthesizes a narrative for the given profile material.
// Photos are attached both as JSON metadata and as image parts so the
// model can ground tags in actual photo content.
func (n *Narrator) Generate(ctx context.Context, input domain.NarrativeInput) (domain.Narrative, error) {
	in := vibeInput{
		Education:  input.Education,
		Profession: input.Profession,
		Photos:     make([]vibeInputPhoto, 0, len(input.Photos)),
		Interests:  input.Interests,
		Blurb:      input.Blurb,
	}
	if in.Interests == nil {
		in.Interests = []string{}
	}
	for _, p := range input.Photos {
		in.Photos = append(in.Photos, vibeInputPhoto{ID: p.ID, URL: p.URL})
	}

	inputJSON, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return domain.Narrative{}, fmt.Errorf("encode narrative input: %w", err)
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: fmt.Sprintf("Generate a Vibe Map for this user:\n\n%s", inputJSON),
		},
	}
	for _, p := range in.Photos {
		if p.URL == "" {
			continue
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: p.URL},
		})
	}

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: vibeMapSystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		MaxTokens: 2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "vibe_map",
				Schema: vibeMapSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return domain.Narrative{}, fmt.Errorf("generate narrative: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.Narrative{}, fmt.Errorf("generate narrative: empty completion response")
	}

	n.logUsage(resp.Usage)

	var raw struct {
		VibeReport        string     `json:"vibeReport"`
		TrumpAdamsSummary string     `json:"trumpAdamsSummary"`
		ImageTags         []imageTag `json:"imageTags"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &raw); err != nil {
		return domain.Narrative{}, fmt.Errorf("decode narrative: %w", err)
	}

	return domain.Narrative{
		VibeReport:    raw.VibeReport,
		ProfileHook:   raw.TrumpAdamsSummary,
		LifeStyleTags: flattenTags(raw.ImageTags),
		PromptTokens:  resp.Usage.PromptTokens,
		TotalTokens:   resp.Usage.TotalTokens,
	}, nil
}

// imageTag is one per-photo tag group in the model output.
type imageTag struct {
	PhotoID string   `json:"photoId"`
	Tags    []string `json:"tags"`
}

// flattenTags merges per-photo tags into one list, deduplicated with
// first-occurrence order preserved.
func flattenTags(imageTags []imageTag) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, it := range imageTags {
		for _, tag := range it.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

func (n *Narrator) logUsage(usage openai.Usage) {
	if n.logger == nil {
		return
	}
	cached := 0
	if usage.PromptTokensDetails != nil {
		cached = usage.PromptTokensDetails.CachedTokens
	}
	n.logger.Info("chat completion usage",
		zap.String("op", "narrative"),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("cached_tokens", cached),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Int("total_tokens", usage.TotalTokens),
	)
}
