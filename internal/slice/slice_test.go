package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dzungnguyen14/aiowallet-app/internal/slice"
)

func TestTrackerOrdering(t *testing.T) {
	var tr slice.Tracker

	a := tr.Begin()
	b := tr.Begin()
	assert.Less(t, a, b)

	assert.True(t, tr.Apply(b), "newest completion applies")
	assert.False(t, tr.Apply(a), "older completion is discarded")
	assert.True(t, tr.Apply(b), "re-applying the newest tag is allowed")

	c := tr.Begin()
	assert.True(t, tr.Apply(c))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", slice.Idle.String())
	assert.Equal(t, "loading", slice.Loading.String())
	assert.Equal(t, "error", slice.Errored.String())
}
