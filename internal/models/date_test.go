package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 15)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(b))

	var parsed Date
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.True(t, parsed.Equal(d.Time))
}

func TestDateUnmarshalRejectsOtherLayouts(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"15/03/2024"`), &d)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`"2024-03-15T10:00:00Z"`), &d)
	assert.Error(t, err)
}

func TestDateScanTruncatesTime(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-15", d.String())
}
