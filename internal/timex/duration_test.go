package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"30s"}`), &v))
	assert.Equal(t, 30*time.Second, v.D.Duration)
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":5000000000}`), &v))
	assert.Equal(t, 5*time.Second, v.D.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"d":"not-a-duration"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"d":true}`), &v))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Duration{2 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(b))
}
