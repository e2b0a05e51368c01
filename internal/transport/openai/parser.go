package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// queryParserSchema is the strict JSON schema the model must produce.
// Every filter property is required and nullable so that strict mode
// works; null values are stripped after decoding.
var queryParserSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "filters": {
      "type": "object",
      "description": "Hard filters for search",
      "properties": {
        "min_age": {"type": ["integer", "null"], "description": "Minimum age"},
        "max_age": {"type": ["integer", "null"], "description": "Maximum age"},
        "min_height": {"type": ["integer", "null"], "description": "Minimum height in INCHES (convert cm to inches if needed: divide by 2.54)"},
        "max_height": {"type": ["integer", "null"], "description": "Maximum height in INCHES"},
        "min_income": {"type": ["integer", "null"], "description": "Minimum income in LPA"},
        "max_income": {"type": ["integer", "null"], "description": "Maximum income in LPA"},
        "genders": {"type": ["array", "null"], "items": {"type": "string", "enum": ["male", "female"]}},
        "religions": {"type": ["array", "null"], "items": {"type": "string", "enum": ["HI", "MU", "CR", "SI", "JA", "BU", "PA", "JE", "BA", "NR"]}},
        "locations": {"type": ["array", "null"], "items": {"type": "string"}, "description": "Location codes like IN_MB (Mumbai), IN_DEL (Delhi), IN_BLR (Bangalore). Use country prefix + city code."},
        "marital_statuses": {"type": ["array", "null"], "items": {"type": "string", "enum": ["NM", "DV", "WD", "AN"]}},
        "family_types": {"type": ["array", "null"], "items": {"type": "string", "enum": ["NU", "JF", "LP", "LT"]}},
        "food_habits": {"type": ["array", "null"], "items": {"type": "string", "enum": ["VGT", "NVT", "EGT", "VGN", "PST"]}},
        "smoking": {"type": ["array", "null"], "items": {"type": "string", "enum": ["NS", "SS", "SR"]}},
        "drinking": {"type": ["array", "null"], "items": {"type": "string", "enum": ["DD", "DS", "DR"]}},
        "religiosity": {"type": ["array", "null"], "items": {"type": "string", "enum": ["ST", "MO", "SP", "CU", "NO"]}},
        "fitness": {"type": ["array", "null"], "items": {"type": "string", "enum": ["ER", "ES", "EN"]}},
        "intent": {"type": ["array", "null"], "items": {"type": "string", "enum": ["01", "12", "23", "30"]}}
      },
      "required": ["min_age", "max_age", "min_height", "max_height", "min_income", "max_income", "genders", "religions", "locations", "marital_statuses", "family_types", "food_habits", "smoking", "drinking", "religiosity", "fitness", "intent"],
      "additionalProperties": false
    },
    "education_query": {
      "type": "string",
      "description": "Education keywords exactly as mentioned. No expansion. Empty string if not mentioned."
    },
    "profession_query": {
      "type": "string",
      "description": "Profession keywords exactly as mentioned. No expansion. Empty string if not mentioned."
    },
    "vibe_report_query": {
      "type": "string",
      "description": "Personality traits and hobbies/interests exactly as mentioned. No fluff or expansion. Empty string if not mentioned."
    }
  },
  "required": ["filters", "education_query", "profession_query", "vibe_report_query"],
  "additionalProperties": false
}`)

const queryParserSystemPrompt = `You are a query parser for a matrimonial profile search system.
Extract structured information from natural language queries.

FILTER CODES:
- religions: HI=Hindu, MU=Muslim, CR=Christian, SI=Sikh, JA=Jain, BU=Buddhist, PA=Parsi, JE=Jewish, BA=Bahai, NR=No Religion
- marital_statuses: NM=Never Married, DV=Divorced, WD=Widowed, AN=Annulled
- family_types: NU=Nuclear, JF=Joint, LP=Living with Parents, LT=Living Alone
- food_habits: VGT=Vegetarian, NVT=Non-Vegetarian, EGT=Eggetarian, VGN=Vegan, PST=Pescatarian
- smoking: NS=Non-Smoker, SS=Social Smoker, SR=Regular Smoker
- drinking: DD=Non-Drinker, DS=Social Drinker, DR=Regular Drinker
- religiosity: ST=Strict, MO=Moderate, SP=Spiritual, CU=Cultural, NO=Not Religious
- fitness: ER=Exercise Regularly, ES=Exercise Sometimes, EN=Exercise Never
- intent: 01=0-1 year, 12=1-2 years, 23=2-3 years, 30=3+ years marriage timeline

LOCATION CODES (use these exact codes):
India: IN_MB=Mumbai, IN_DEL=Delhi, IN_BLR=Bangalore, IN_HYD=Hyderabad, IN_CHE=Chennai, IN_KOL=Kolkata, IN_PUN=Pune, IN_AHM=Ahmedabad, IN_JAI=Jaipur, IN_LKO=Lucknow, IN_GUR=Gurugram, IN_NOI=Noida, IN_CHD=Chandigarh, IN_IND=Indore, IN_NAG=Nagpur, IN_COI=Coimbatore, IN_KOC=Kochi, IN_THI=Thiruvananthapuram, IN_VIZ=Visakhapatnam, IN_VAD=Vadodara, IN_SUR=Surat, IN_LUD=Ludhiana, IN_MYS=Mysore
USA: US_NYC=New York, US_LA=Los Angeles, US_SF=San Francisco, US_CHI=Chicago, US_SEA=Seattle, US_BOS=Boston, US_WAS=Washington DC, US_HOU=Houston, US_DAL=Dallas, US_ATL=Atlanta, US_DEN=Denver, US_PHX=Phoenix, US_SD=San Diego, US_SJ=San Jose, US_AUS=Austin
UK: UK_LON=London, UK_MAN=Manchester, UK_BIR=Birmingham, UK_EDI=Edinburgh, UK_GLA=Glasgow, UK_LEE=Leeds, UK_CAM=Cambridge, UK_OXF=Oxford
Canada: CA_TOR=Toronto, CA_VAN=Vancouver, CA_MON=Montreal, CA_CAL=Calgary, CA_OTT=Ottawa
UAE: AE_DXB=Dubai, AE_AUH=Abu Dhabi
Singapore: SG_SG=Singapore
Australia: AU_SYD=Sydney, AU_MEL=Melbourne, AU_BRI=Brisbane, AU_PER=Perth
Germany: DE_BER=Berlin, DE_MUN=Munich, DE_FRA=Frankfurt
Switzerland: CH_ZUR=Zurich, CH_GN=Geneva

HEIGHT CONVERSION (CRITICAL):
- If height >= 100 (like 150, 160, 170), it's in cm - convert to inches by dividing by 2.54
- 150 cm = 59 inches, 160 cm = 63 inches, 170 cm = 67 inches, 180 cm = 71 inches
- 5'0" = 60 inches, 5'6" = 66 inches, 6'0" = 72 inches

SEMANTIC QUERY RULES:
1. education_query: Extract exactly what's mentioned, no expansion (e.g., "IIT Graduate" -> "IIT Graduate")
2. profession_query: Extract exactly what's mentioned, no expansion (e.g., "Software Engineer" -> "Software Engineer")
3. vibe_report_query: Extract hobbies/interests/personality exactly as mentioned, no fluff
   - "loves guitar music and hiking" -> "guitar music hiking"
   - "ambitious and caring" -> "ambitious caring"
   - Keep it straightforward, no added words

EXAMPLES:

Query: "IIT graduate software engineer age 25-32 loves guitar and hiking height atleast 150"
Output:
- filters: {min_age: 25, max_age: 32, min_height: 59}  (150cm = 59 inches)
- education_query: "IIT graduate"
- profession_query: "software engineer"
- vibe_report_query: "guitar hiking"

Query: "Doctor from Mumbai, caring and empathetic person, height 5'6 to 6'"
Output:
- filters: {locations: ["IN_MB"], min_height: 66, max_height: 72}
- education_query: ""
- profession_query: "doctor"
- vibe_report_query: "caring empathetic"

Query: "CA or MBA, vegetarian, modern progressive mindset"
Output:
- filters: {food_habits: ["VGT"]}
- education_query: "CA MBA"
- profession_query: ""
- vibe_report_query: "modern progressive"

Query: "Hindu girl from Delhi, age 28-35, loves travel and photography"
Output:
- filters: {genders: ["female"], religions: ["HI"], locations: ["IN_DEL"], min_age: 28, max_age: 35}
- education_query: ""
- profession_query: ""
- vibe_report_query: "travel photography"`

// Parser converts natural-language search queries into structured
// filters and per-field semantic queries via a chat completion.
type Parser struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// ParserConfig holds the query parser settings.
type ParserConfig struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string
	Logger  *zap.Logger
}

// NewParser creates a query parser.
func NewParser(cfg *ParserConfig) *Parser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Parser{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Parse extracts filters and semantic queries from a natural-language query.
// A blank query returns an empty result without an API call.
func (p *Parser) Parse(ctx context.Context, query string) (domain.ParsedQuery, error) {
	if strings.TrimSpace(query) == "" {
		return domain.ParsedQuery{Filters: map[string]any{}}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: queryParserSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Parse this search query: %q", query)},
		},
		// omitempty drops a literal zero; smallest non-zero float is the
		// documented go-openai workaround for deterministic output.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "parsed_query",
				Schema: queryParserSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("parse query: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.ParsedQuery{}, fmt.Errorf("parse query: empty completion response")
	}

	p.logUsage("query_parser", resp.Usage)

	var raw struct {
		Filters         map[string]any `json:"filters"`
		EducationQuery  string         `json:"education_query"`
		ProfessionQuery string         `json:"profession_query"`
		VibeReportQuery string         `json:"vibe_report_query"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &raw); err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("decode parsed query: %w", err)
	}

	// Strict mode forces every filter key to be present; nulls mean "not mentioned".
	filters := make(map[string]any)
	for k, v := range raw.Filters {
		if v != nil {
			filters[k] = v
		}
	}

	return domain.ParsedQuery{
		OriginalQuery:   query,
		Filters:         filters,
		EducationQuery:  raw.EducationQuery,
		ProfessionQuery: raw.ProfessionQuery,
		VibeReportQuery: raw.VibeReportQuery,
	}, nil
}

// logUsage records prompt/completion token counts including prompt cache hits.
func (p *Parser) logUsage(op string, usage openai.Usage) {
	if p.logger == nil {
		return
	}
	cached := 0
	if usage.PromptTokensDetails != nil {
		cached = usage.PromptTokensDetails.CachedTokens
	}
	p.logger.Info("chat completion usage",
		zap.String("op", op),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("cached_tokens", cached),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Int("total_tokens", usage.TotalTokens),
	)
}
