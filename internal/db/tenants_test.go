package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-content-engine/internal/types"
)

func TestPromptColumn(t *testing.T) {
	for _, kind := range types.AllTemplateKinds {
		col, err := promptColumn(kind)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(col, "custom_"), col)
	}

	_, err := promptColumn("carousel")
	assert.Error(t, err)
}

func TestClearPromptsSQL(t *testing.T) {
	query, err := clearPromptsSQL([]types.TemplateKind{types.KindLinkedInPost, types.KindImage})
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE tenants SET custom_linkedin_prompt = NULL, custom_image_prompt = NULL, updated_at = NOW() WHERE id = $1",
		query)

	query, err = clearPromptsSQL(nil)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE tenants SET updated_at = NOW() WHERE id = $1", query)

	_, err = clearPromptsSQL([]types.TemplateKind{"bogus"})
	assert.Error(t, err)
}

func TestTenantRowDecode(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	row := tenantRow{
		id:         uuid.New(),
		name:       "Shelf Labs",
		brandVoice: []byte(`{"companyName":"Shelf Labs","industry":"Amazon Selling"}`),
		prompts: [3][]byte{
			[]byte(`{"body":"Write posts.","generatedAt":"2026-03-01T09:00:00Z"}`),
			nil,
			[]byte(`{"body":"Draw it.","modifiedAt":"2026-03-01T09:00:00Z"}`),
		},
		createdAt: now,
		updatedAt: now,
	}

	tenant, err := row.decode()
	require.NoError(t, err)
	assert.Equal(t, "Shelf Labs", tenant.Name)
	require.NotNil(t, tenant.BrandVoiceData)
	assert.Equal(t, "Amazon Selling", tenant.BrandVoiceData.Industry)
	assert.Equal(t, []string{}, tenant.ContentPillars)

	require.Len(t, tenant.Prompts, 2)
	linkedin, ok := tenant.Prompt(types.KindLinkedInPost)
	require.True(t, ok)
	assert.Equal(t, "Write posts.", linkedin.Body)
	require.NotNil(t, linkedin.GeneratedAt)
	assert.True(t, now.Equal(*linkedin.GeneratedAt))

	_, ok = tenant.Prompt(types.KindHook)
	assert.False(t, ok)

	image, ok := tenant.Prompt(types.KindImage)
	require.True(t, ok)
	assert.NotNil(t, image.ModifiedAt)
	assert.True(t, tenant.HasCustomPrompts())
}

func TestTenantRowDecode_Empty(t *testing.T) {
	tenant, err := tenantRow{name: "Bare"}.decode()
	require.NoError(t, err)
	assert.Nil(t, tenant.BrandVoiceData)
	assert.Nil(t, tenant.Prompts)
	assert.False(t, tenant.HasCustomPrompts())
}

func TestTenantRowDecode_BadJSON(t *testing.T) {
	_, err := tenantRow{brandVoice: []byte(`{`)}.decode()
	assert.ErrorContains(t, err, "brand voice")

	_, err = tenantRow{prompts: [3][]byte{nil, []byte(`[`), nil}}.decode()
	assert.ErrorContains(t, err, "hook prompt")
}

func TestEncodeJSON(t *testing.T) {
	b, err := encodeJSON[types.RawBrandVoice](nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = encodeJSON(&types.RawBrandVoice{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"companyName":"Acme"`)
}

func TestConnectRedis_MissingAddr(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "")
	assert.ErrorContains(t, err, "missing redis address")
}
