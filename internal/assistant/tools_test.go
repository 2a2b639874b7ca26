package assistant

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/assistant/internal/model"
	"github.com/tripweaver/assistant/internal/mutator"
)

func testCatalog() []Tool {
	return buildCatalog(mutator.New(&scriptedClient{}, "gpt-4o"), &scriptedSearcher{})
}

func TestCatalogCoversEveryIntent(t *testing.T) {
	want := []string{
		"update_itinerary",
		"add_free_day",
		"remove_free_day",
		"add_activity",
		"remove_activity",
		"reorder_activities",
		"change_accommodation",
		"upgrade_accommodation",
		"downgrade_accommodation",
	}

	catalog := testCatalog()
	require.Len(t, catalog, len(want))
	for i, name := range want {
		assert.Equal(t, name, catalog[i].Name)
		assert.NotEmpty(t, catalog[i].Description)
		assert.NotNil(t, catalog[i].Handle)
	}
}

func TestParseArgsEnforcesRequired(t *testing.T) {
	catalog := testCatalog()
	var addActivity *Tool
	for i := range catalog {
		if catalog[i].Name == "add_activity" {
			addActivity = &catalog[i]
		}
	}
	require.NotNil(t, addActivity)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", `{"activity":"snorkeling","destination":"Bali"}`, false},
		{"missing destination", `{"activity":"snorkeling"}`, true},
		{"blank required", `{"activity":"snorkeling","destination":"  "}`, true},
		{"wrong type", `{"activity":1,"destination":"Bali"}`, true},
		{"not json", `nope`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseArgs(addActivity, json.RawMessage(tc.raw))
			if tc.wantErr {
				assert.True(t, errors.Is(err, model.ErrMalformedToolCall), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseArgsNoArgumentsTool(t *testing.T) {
	catalog := testCatalog()
	for i := range catalog {
		if catalog[i].Name != "add_free_day" {
			continue
		}
		args, err := parseArgs(&catalog[i], nil)
		require.NoError(t, err)
		assert.Empty(t, args)
	}
}

func TestLLMToolsSchemaShape(t *testing.T) {
	wire := llmTools(testCatalog())
	require.Len(t, wire, 9)

	byName := map[string]map[string]interface{}{}
	for _, w := range wire {
		byName[w.Name] = w.Parameters
	}

	schema := byName["update_itinerary"]
	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "itinerary")
	assert.Contains(t, props, "updated_changes")
	assert.ElementsMatch(t, []string{"itinerary", "updated_changes"}, schema["required"])

	// No-argument tools advertise an empty properties object and omit required.
	free := byName["add_free_day"]
	assert.Empty(t, free["properties"])
	assert.NotContains(t, free, "required")
}
