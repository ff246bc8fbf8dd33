package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Text(t *testing.T) {
	out, err := execute(t, "validate", "testdata/labels.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "validate_text", []byte(out))
}

func TestValidate_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/labels.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ValidateResult{Domain: "labels", Elements: 4, Holes: 1, Mapped: 4}, resp.Data)
}

func TestValidate_Failure(t *testing.T) {
	out, err := execute(t, "validate", writeDoc(t, "elements: [a]\nmapping: {}\n"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]: build transform")
}
