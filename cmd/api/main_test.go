package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Minute+30*time.Second, writeTimeout(2*time.Minute))
	assert.Zero(t, writeTimeout(0))
	assert.Zero(t, writeTimeout(-time.Second))
}
