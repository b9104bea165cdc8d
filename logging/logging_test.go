// SPDX-License-Identifier: MIT

package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/logging"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, logging.DefaultConfig().Validate())
	err := logging.Config{Level: "loud", Format: "text"}.Validate()
	assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration))
	err = logging.Config{Level: "info", Format: "xml"}.Validate()
	assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration))
}

func TestNewJSONCarriesStageField(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logging.Stage(l, "qlem").WithField("steps", 3).Info("done")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "qlem", rec[logging.FieldStage])
	assert.Equal(t, "done", rec["msg"])
	assert.EqualValues(t, 3, rec["steps"])
}

func TestStageNilLoggerIsSilent(t *testing.T) {
	assert.NotPanics(t, func() { logging.Stage(nil, "cis").Info("ignored") })
}
