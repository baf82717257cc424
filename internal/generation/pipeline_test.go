package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/llm/llmtest"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcript = "Our clients keep losing the Buy Box because their flat files are wrong. We fixed one in two days. Sales doubled."

const hooksJSON = "```json\n" + `[
  {"pillar": "Customer Success", "sourceQuote": "We fixed one in two days.", "blog": "Fixing flat files fast", "linkedinDraft": "Two days. That's all it took.", "tweetDraft": "Two days to fix a flat file.", "confidence": 0.92, "reasoning": "Concrete result"},
  {"pillar": "Industry Insights", "sourceQuote": "Sales doubled.", "blog": "Why listings matter", "linkedinDraft": "Sales doubled after one fix.", "tweetDraft": "One fix, 2x sales.", "confidence": 0.81, "reasoning": "Big number"}
]` + "\n```"

const postJSON = `{"post": "Two days.\n\nThat is how long it took to win back the Buy Box.", "reasoning": "Specific number hook", "estimatedCharacterCount": 60}`

func amazonBrand() *types.RawBrandVoice {
	return &types.RawBrandVoice{CompanyName: "Shelf Labs", Industry: "Amazon Selling"}
}

func assertHookShape(t *testing.T, hooks []types.Hook) {
	t.Helper()
	require.NotEmpty(t, hooks)
	assert.LessOrEqual(t, len(hooks), MaxHooks)
	for _, h := range hooks {
		assert.NotEmpty(t, h.Pillar)
		assert.NotEmpty(t, h.SourceQuote)
		assert.NotEmpty(t, h.LinkedInDraft)
		assert.GreaterOrEqual(t, h.Confidence, 0.0)
		assert.LessOrEqual(t, h.Confidence, 1.0)
	}
}

func assertPostShape(t *testing.T, post *types.Post) {
	t.Helper()
	require.NotNil(t, post)
	assert.NotEmpty(t, post.Content)
	assert.NotEmpty(t, post.Reasoning)
	assert.Equal(t, utf8.RuneCountInString(post.Content), post.CharacterCount)
	assert.True(t, strings.HasSuffix(post.ImagePrompt, NoTextInstruction))
}

func TestGenerateHooks_MockAndRealShareShape(t *testing.T) {
	ctx := context.Background()
	req := HookRequest{Transcript: transcript, BrandVoice: amazonBrand(), Pillars: []string{"Customer Success", "Industry Insights"}}

	mock, err := New(nil, nil, nil).GenerateHooks(ctx, req)
	require.NoError(t, err)
	assertHookShape(t, mock)
	assert.Equal(t, "Our clients keep losing the Buy Box because their flat files are wrong.", mock[0].SourceQuote)

	live, err := New(llmtest.New(llmtest.Response{Text: hooksJSON}), nil, nil).GenerateHooks(ctx, req)
	require.NoError(t, err)
	assertHookShape(t, live)
	assert.Len(t, live, 2)
	assert.Equal(t, 0.92, live[0].Confidence)
}

func TestGenerateHooks_WrappedObject(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: `{"insights": [{"pillar": "", "sourceQuote": "q", "linkedinDraft": "d", "confidence": 0.5}]}`})
	hooks, err := New(fake, nil, nil).GenerateHooks(context.Background(), HookRequest{Transcript: transcript, Pillars: []string{"Growth"}})
	require.NoError(t, err)
	require.Len(t, hooks, 1)
	assert.Equal(t, "Growth", hooks[0].Pillar)
}

func TestGenerateHooks_CapsAtMax(t *testing.T) {
	item := `{"pillar": "p", "sourceQuote": "q", "linkedinDraft": "d", "confidence": 0.5}`
	items := make([]string, 14)
	for i := range items {
		items[i] = item
	}
	fake := llmtest.New(llmtest.Response{Text: "[" + strings.Join(items, ",") + "]"})
	hooks, err := New(fake, nil, nil).GenerateHooks(context.Background(), HookRequest{Transcript: transcript})
	require.NoError(t, err)
	assert.Len(t, hooks, MaxHooks)
}

func TestGenerateHooks_DegradesToMock(t *testing.T) {
	for name, resp := range map[string]llmtest.Response{
		"call error":   {Err: errors.New("timeout")},
		"not json":     {Text: "Here are some hooks: be bold"},
		"wrong schema": {Text: `[{"pillar": "p"}]`},
		"empty array":  {Text: `[]`},
	} {
		t.Run(name, func(t *testing.T) {
			hooks, err := New(llmtest.New(resp), nil, nil).GenerateHooks(context.Background(), HookRequest{Transcript: transcript})
			require.NoError(t, err)
			assertHookShape(t, hooks)
			assert.Len(t, hooks, 3)
		})
	}
}

func TestGenerateHooks_Validation(t *testing.T) {
	_, err := New(nil, nil, nil).GenerateHooks(context.Background(), HookRequest{Transcript: "  "})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "transcript", ve.Field)
}

func TestGenerateHooks_TenantTemplateWithoutPlaceholder(t *testing.T) {
	store := templates.NewMemoryStore()
	id := store.PutTenant(&types.Tenant{
		Name: "Shelf Labs",
		Prompts: map[types.TemplateKind]types.StoredPrompt{
			types.KindHook: {Body: "Find the best hooks for {{.CompanyName}}."},
		},
	})
	fake := llmtest.New(llmtest.Response{Text: hooksJSON})
	p := New(fake, templates.NewManager(store, nil, nil), nil)

	_, err := p.GenerateHooks(context.Background(), HookRequest{Transcript: transcript, BrandVoice: amazonBrand(), TenantID: &id})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Find the best hooks for Shelf Labs.")
	assert.Contains(t, calls[0].Prompt, "INPUT DATA")
	assert.Contains(t, calls[0].Prompt, "Transcript: "+transcript)
}

func TestGenerateHooks_UnknownTenant(t *testing.T) {
	p := New(llmtest.New(), templates.NewManager(templates.NewMemoryStore(), nil, nil), nil)
	id := uuid.New()
	_, err := p.GenerateHooks(context.Background(), HookRequest{Transcript: transcript, TenantID: &id})
	assert.ErrorIs(t, err, templates.ErrTenantNotFound)
}

func TestGeneratePost_MockAndRealShareShape(t *testing.T) {
	ctx := context.Background()
	req := PostRequest{Hook: "Two days to win back the Buy Box", Pillar: "Customer Success", BrandVoice: amazonBrand()}

	mock, err := New(nil, nil, nil).GeneratePost(ctx, req)
	require.NoError(t, err)
	assertPostShape(t, mock)
	assert.True(t, strings.HasPrefix(mock.Content, "Two days to win back the Buy Box"))
	assert.Contains(t, mock.Content, "Amazon Selling")
	assert.Contains(t, mock.Content, "customer success")
	assert.Contains(t, mock.Content, "#AmazonSelling")

	live, err := New(llmtest.New(llmtest.Response{Text: postJSON}), nil, nil).GeneratePost(ctx, req)
	require.NoError(t, err)
	assertPostShape(t, live)
	assert.Equal(t, "Specific number hook", live.Reasoning)
}

func TestGeneratePost_PromptCarriesInputsAndContract(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: postJSON})
	_, err := New(fake, nil, nil).GeneratePost(context.Background(), PostRequest{
		Hook:           "Two days",
		Pillar:         "Growth",
		MeetingSummary: "Call with a supplement brand",
		BrandVoice:     amazonBrand(),
	})
	require.NoError(t, err)

	prompt := fake.Calls()[0].Prompt
	assert.Contains(t, prompt, "Hook: Two days")
	assert.Contains(t, prompt, "Meeting context: Call with a supplement brand")
	assert.Contains(t, prompt, "estimatedCharacterCount")
	assert.True(t, templates.HasGuardrails(prompt))
	assert.NotContains(t, prompt, "{{.")
}

func TestGeneratePost_SalvagesUnstructuredText(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: "Two days.\n\nThat's all it took."})
	post, err := New(fake, nil, nil).GeneratePost(context.Background(), PostRequest{Hook: "Two days"})
	require.NoError(t, err)
	assertPostShape(t, post)
	assert.Equal(t, "Two days.\n\nThat's all it took.", post.Content)
	assert.Equal(t, SalvagedReasoning, post.Reasoning)
}

func TestGeneratePost_FailuresKeepShape(t *testing.T) {
	for name, resp := range map[string]llmtest.Response{
		"call error": {Err: errors.New("500")},
		"empty":      {Text: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			post, err := New(llmtest.New(resp), nil, nil).GeneratePost(context.Background(), PostRequest{Hook: "Two days"})
			require.NoError(t, err)
			assertPostShape(t, post)
			assert.Equal(t, MockReasoning, post.Reasoning)
		})
	}
}

func TestGeneratePost_Validation(t *testing.T) {
	_, err := New(nil, nil, nil).GeneratePost(context.Background(), PostRequest{})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRewrite_MockTransforms(t *testing.T) {
	long := strings.Repeat("Flat files break listings. ", 10)
	p := New(nil, nil, nil)

	short, err := p.Rewrite(context.Background(), RewriteRequest{Content: long, Instructions: "Make it SHORT"})
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(short), MockRewriteLimit+3)

	stat, err := p.Rewrite(context.Background(), RewriteRequest{Content: "Post", Instructions: "add a statistic"})
	require.NoError(t, err)
	assert.Equal(t, "Post\n\n"+MockStatLine, stat)

	same, err := p.Rewrite(context.Background(), RewriteRequest{Content: "Post", Instructions: "more energy"})
	require.NoError(t, err)
	assert.Equal(t, "Post", same)
}

func TestRewrite_Real(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: "```\nA tighter post.\n```"})
	out, err := New(fake, nil, nil).Rewrite(context.Background(), RewriteRequest{Content: "A long post.", Instructions: "tighten", BrandVoice: amazonBrand()})
	require.NoError(t, err)
	assert.Equal(t, "A tighter post.", out)
	assert.Contains(t, fake.Calls()[0].Prompt, "tighten")
	assert.Contains(t, fake.Calls()[0].Prompt, "Shelf Labs")
	assert.Contains(t, fake.Calls()[0].Prompt, "BRAND VOICE:\nShelf Labs is a Amazon Selling company that speaks to ")
	assert.NotContains(t, fake.Calls()[0].Prompt, "{{.")

	fallback, err := New(llmtest.New(llmtest.Response{Err: errors.New("boom")}), nil, nil).Rewrite(context.Background(), RewriteRequest{Content: "Post", Instructions: "add a statistic"})
	require.NoError(t, err)
	assert.Equal(t, "Post\n\n"+MockStatLine, fallback)
}

func TestRewrite_Validation(t *testing.T) {
	_, err := New(nil, nil, nil).Rewrite(context.Background(), RewriteRequest{Content: "x"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "instructions", ve.Field)
}

func TestCleanRewrite(t *testing.T) {
	assert.Equal(t, "hello", cleanRewrite(`"hello"`))
	assert.Equal(t, `say "hi" now`, cleanRewrite(`say "hi" now`))
	assert.Equal(t, "", cleanRewrite("```"))
}

func TestPartialBrandVoiceIsNormalized(t *testing.T) {
	ctx := context.Background()
	partial := &types.RawBrandVoice{Industry: "Amazon Selling"}
	want := brandvoice.Normalize(partial)
	require.NotEmpty(t, want.TargetAudience)

	p := New(nil, nil, nil)
	hooks, err := p.GenerateHooks(ctx, HookRequest{Transcript: transcript, BrandVoice: partial})
	require.NoError(t, err)
	assert.Contains(t, hooks[0].LinkedInDraft, "Most "+strings.ToLower(want.TargetAudience)+" miss this.")
	assert.Contains(t, hooks[1].Blog, brandvoice.DefaultCompanyName)

	post, err := p.GeneratePost(ctx, PostRequest{Hook: "Flat files break listings", BrandVoice: partial})
	require.NoError(t, err)
	assert.Contains(t, post.Content, "with "+strings.ToLower(want.TargetAudience)+",")
	assert.Contains(t, post.ImagePrompt, "Mood: "+want.VisualStyleProfile.Mood)
	assert.NotContains(t, post.ImagePrompt, "Mood: \n")
}

func TestWithExcerptLength(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: "Shorter."})
	raw := &types.RawBrandVoice{WebsiteContent: strings.Repeat("word ", 100)}
	p := New(fake, nil, nil, WithExcerptLength(10))

	assert.Equal(t, "word word", p.brandVoice(raw).WebsiteContentExcerpt)
	assert.Len(t, New(nil, nil, nil).brandVoice(raw).WebsiteContentExcerpt, 499)
}
