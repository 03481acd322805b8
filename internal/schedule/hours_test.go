package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSlotLabel(t *testing.T) {
	for _, label := range AllowedSlotLabels() {
		assert.True(t, IsSlotLabel(label), "label %q should be accepted", label)
	}

	assert.True(t, IsSlotLabel("6PM-9PM"), "labels are case-insensitive")
	assert.True(t, IsSlotLabel(" 9pm - 12am "), "labels tolerate spacing")
	assert.False(t, IsSlotLabel("3am-6am"))
	assert.False(t, IsSlotLabel("evening"))
	assert.False(t, IsSlotLabel(""))
}

func TestAllowedSlotLabelsIsACopy(t *testing.T) {
	labels := AllowedSlotLabels()
	require.Len(t, labels, 3)

	labels[0] = "mutated"
	assert.Equal(t, "6pm-9pm", AllowedSlotLabels()[0], "callers must not mutate the canonical list")
}

func TestWindowDescription(t *testing.T) {
	assert.Equal(t, "18:00-23:59, 00:00-03:00", WindowDescription(time.Monday))
	assert.Equal(t, "18:00-22:00", WindowDescription(time.Saturday))
	assert.Equal(t, "closed", WindowDescription(time.Sunday))
}
