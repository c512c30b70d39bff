package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "eva-framework/internal/domain/screening"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluate_TextReport(t *testing.T) {
	out, err := run(t, "evaluate", "--income", "600", "--loan", "3000", "--assets", "300")
	require.NoError(t, err)

	assert.Contains(t, out, "decision:   HOLD")
	assert.Contains(t, out, "bottleneck: DOWN")
	assert.Contains(t, out, "頭金比率が最低(10%)を下回る")
	assert.Contains(t, out, "assets 33.3")
	assert.Contains(t, out, "[fastest]")
	assert.Contains(t, out, "discussion (fallback):")
}

func TestEvaluate_JSONEnvelope(t *testing.T) {
	out, err := run(t, "evaluate", "--income", "800", "--loan", "3000", "--assets", "800", "--age", "40", "--json")
	require.NoError(t, err)

	var env struct {
		Gate struct {
			Decision   string  `json:"decision"`
			Bottleneck *string `json:"bottleneck"`
		} `json:"gate"`
		Input domain.ApplicantInput `json:"input"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "PASS", env.Gate.Decision)
	assert.Nil(t, env.Gate.Bottleneck)
	require.NotNil(t, env.Input.Age)
	assert.Equal(t, 40, *env.Input.Age)
}

func TestEvaluate_PolicyFlags(t *testing.T) {
	// Lowering the LTI cap turns the otherwise passing applicant into an LTI hold.
	out, err := run(t, "evaluate", "--income", "800", "--loan", "3000", "--assets", "800", "--lti-max", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "bottleneck: LTI")
	assert.Contains(t, out, "年収倍率(LTI)が上限(3倍)を超える")
}

func TestEvaluate_InvalidPolicyFlag(t *testing.T) {
	_, err := run(t, "evaluate", "--income", "600", "--loan", "3000", "--dti-max", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestPolicy_PrintsDefaults(t *testing.T) {
	out, err := run(t, "policy")
	require.NoError(t, err)

	var p domain.Policy
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, domain.DefaultPolicy(), p)
	assert.True(t, strings.Contains(out, `"bank": "EVΛƎ Demo Bank"`))
}

func TestEvaluate_HugeLoanDoesNotCrash(t *testing.T) {
	out, err := run(t, "evaluate", "--income", "600", "--loan", "1e308", "--assets", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "bottleneck: DTI")
}
