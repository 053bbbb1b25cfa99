package prompt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestConfirmOverwriteForce(t *testing.T) {
	ok, err := ConfirmOverwrite("/tmp/config.yaml", true)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAborted(t *testing.T) {
	assert.True(t, IsAborted(ErrAborted))
	assert.True(t, IsAborted(fmt.Errorf("init: %w", ErrAborted)))
	assert.True(t, IsAborted(promptui.ErrInterrupt))
	assert.False(t, IsAborted(promptui.ErrAbort), "answering no is not an abort")
	assert.False(t, IsAborted(errors.New("other")))
}
