package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalsForPlatform(t *testing.T) {
	sigs := getSignalsForPlatform()
	assert.NotEmpty(t, sigs)
	assert.Contains(t, sigs, os.Interrupt)

	for _, sig := range sigs {
		if isSIGTSTPForPlatform(sig) {
			assert.NotEqual(t, os.Interrupt, sig)
		}
	}
	assert.False(t, isSIGTSTPForPlatform(os.Interrupt))
}
