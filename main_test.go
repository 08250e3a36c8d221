package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeeds(t *testing.T) {
	got := seeds([]string{"Office", "192.168.1.30", "10.0.0.2:1400", "fe80::1", "Living Room"})
	assert.Equal(t, []string{"192.168.1.30", "10.0.0.2:1400"}, got)
	assert.Empty(t, seeds(nil))
}
