package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"brecha/cmd"
	"brecha/internal/catalog"
	"brecha/pkg/categorizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearLLMEnv makes sure no credentials leak in from the developer's shell.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM_API_KEY", "GEMINI_API_KEY", "LLM_MODEL_NAME", "GEMINI_MODEL_NAME", "CATALOG_SOURCE", "CATALOG_DRIVER"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cmd.Run(context.Background(), args, &out)
	return out.String(), err
}

func TestCLI_CategoriesWithoutCredentials(t *testing.T) {
	clearLLMEnv(t)

	out, err := run(t, "categories", "--json")
	require.NoError(t, err)

	var cats []catalog.Category
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	assert.Len(t, cats, 8)
	assert.Equal(t, "SERVICIO DE EDUCACIÓN SECUNDARIA", cats[0].Name)

	out, err = run(t, "categories", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "8 categories from embedded")
}

func TestCLI_DoctorReportsMissingCredentials(t *testing.T) {
	clearLLMEnv(t)

	out, err := run(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.model_name")
	assert.Contains(t, out, "Catalog: 8 categories")
}

func TestCLI_ClassifyRequiresCredentials(t *testing.T) {
	clearLLMEnv(t)

	_, err := run(t, "classify", "agua potable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestCLI_Classify(t *testing.T) {
	clearLLMEnv(t)
	f := &fakeModel{replies: []string{waterReply}}
	useFakeModel(t, f)

	out, err := run(t, "classify", "--json", "Mejoramiento", "del servicio de agua potable")
	require.NoError(t, err)

	var res categorizer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Labels, 1)
	assert.Equal(t, 3, res.Labels[0].ID)

	out, err = run(t, "classify", "--json=false", "agua potable")
	require.NoError(t, err)
	assert.Contains(t, out, "CLASSIFIED")
	assert.Contains(t, out, "0.93")
	assert.Equal(t, 2, f.Calls())
}

func TestCLI_ClassifyDegradedFails(t *testing.T) {
	clearLLMEnv(t)
	f := &fakeModel{replies: []string{"no sé"}}
	useFakeModel(t, f)

	out, err := run(t, "classify", "--json=false", "agua potable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), categorizer.ErrMsgMalformed)
	assert.Contains(t, out, "DEGRADED")
	assert.Contains(t, out, "no sé")
}
