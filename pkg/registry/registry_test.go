package registry

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestUnderwriting_IsValid(t *testing.T) {
	reg := Underwriting("1.0.0")
	require.NoError(t, reg.Validate())

	assert.Equal(t,
		[]string{"evaluate-submission", "check-eligibility", "record-decision", "notify-decision"},
		reg.TaskTypes())
	assert.NotNil(t, reg.Find("record-decision"))
	assert.Nil(t, reg.Find("send-email"))
}

func TestUnderwriting_SchemasCompile(t *testing.T) {
	for _, a := range Underwriting("1.0.0").Activities {
		for name, schema := range map[string]map[string]interface{}{"input": a.InputSchema, "output": a.OutputSchema} {
			_, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
			assert.NoError(t, err, "%s %s schema", a.TaskType, name)
		}
	}
}

func TestUnderwriting_OutputSchemaAcceptsEligibilityOutput(t *testing.T) {
	a := Underwriting("1.0.0").Find("check-eligibility")
	require.NotNil(t, a)

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.OutputSchema))
	require.NoError(t, err)

	result, err := schema.Validate(gojsonschema.NewStringLoader(`{"eligible":false,"violatedRule":"REVENUE_LIMIT","reason":"too big"}`))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		reg  ActivityRegistry
		msg  string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"missing id", ActivityRegistry{Activities: []Activity{{DisplayName: "x"}}}, "ID"},
		{
			"duplicate id",
			ActivityRegistry{Activities: []Activity{
				{ID: "a", DisplayName: "A", TaskType: "a", Category: "c"},
				{ID: "a", DisplayName: "A", TaskType: "b", Category: "c"},
			}},
			"duplicate activity ID",
		},
		{
			"duplicate task type",
			ActivityRegistry{Activities: []Activity{
				{ID: "a", DisplayName: "A", TaskType: "t", Category: "c"},
				{ID: "b", DisplayName: "B", TaskType: "t", Category: "c"},
			}},
			"duplicate task type",
		},
		{"missing category", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "t"}}}, "Category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	reg := Underwriting("2.1.0")

	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.TaskTypes(), loaded.TaskTypes())
	assert.Equal(t, "2.1.0", loaded.Version)

	want, _ := json.Marshal(reg.Find("notify-decision").OutputSchema)
	got, _ := json.Marshal(loaded.Find("notify-decision").OutputSchema)
	assert.JSONEq(t, string(want), string(got))
}

func TestDiff(t *testing.T) {
	want := Underwriting("1.0.0")
	got := &ActivityRegistry{Activities: []Activity{
		{TaskType: "evaluate-submission"},
		{TaskType: "check-eligibility"},
		{TaskType: "legacy-scoring"},
	}}

	missing, extra := Diff(want, got)
	assert.Equal(t, []string{"record-decision", "notify-decision"}, missing)
	assert.Equal(t, []string{"legacy-scoring"}, extra)
}
