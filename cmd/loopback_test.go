package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLoopback(t *testing.T) {
	dev := &echoDevice{}

	result, err := runLoopback(dev, []byte{0x41, 0x42, 0x43}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, []byte{0x41, 0x42, 0x43}, result.Received)
	assert.True(t, result.Match)
	assert.NoError(t, result.err())
}

func TestRunLoopbackShortReads(t *testing.T) {
	dev := &echoDevice{chunk: 1, emptyRead: 2}

	result, err := runLoopback(dev, []byte("hello"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), result.Received)
	assert.True(t, result.Match)
	assert.Equal(t, 7, dev.reads)
}

func TestRunLoopbackPartialWrite(t *testing.T) {
	dev := &echoDevice{accept: 2}

	result, err := runLoopback(dev, []byte{1, 2, 3, 4}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, []byte{1, 2}, result.Received)
	assert.False(t, result.Match, "a partially accepted payload is not a full echo")
}

func TestRunLoopbackNoEcho(t *testing.T) {
	dev := &echoDevice{emptyRead: 1 << 30}

	result, err := runLoopback(dev, []byte{0x41}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, result.Received)
	assert.False(t, result.Match)
	assert.ErrorIs(t, result.err(), errEchoMismatch)
}

func TestRunLoopbackErrors(t *testing.T) {
	_, err := runLoopback(&echoDevice{sendErr: errBrokenLine}, []byte{1}, time.Second)
	assert.ErrorIs(t, err, errBrokenLine)

	_, err = runLoopback(&echoDevice{readErr: errBrokenLine}, []byte{1}, time.Second)
	assert.ErrorIs(t, err, errBrokenLine)
}

func TestPrintLoopback(t *testing.T) {
	var out bytes.Buffer
	printLoopback(&out, "/dev/ttyS0", []byte{0x41, 0x42, 0x43}, loopbackResult{
		Sent:     3,
		Received: []byte{0x41, 0x42, 0x43},
		Match:    true,
	})

	assert.Contains(t, out.String(), "Sent:     41 42 43 (3 of 3 bytes accepted)")
	assert.Contains(t, out.String(), "Received: 41 42 43 (3 bytes)")
	assert.Contains(t, out.String(), "Echo matches")
}
