package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCmd(t *testing.T) {
	cmd := getCreateCmd()
	assert.Equal(t, "create", cmd.Use)

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)
	assert.Equal(t, "false", force.DefValue)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "trigram")
	assert.Contains(t, buf.String(), "filmdb create --force")
}

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errors.New("closed") }

func TestConfirm(t *testing.T) {
	tests := []struct {
		msg, input string
		want       bool
	}{
		{"yes", "yes\n", true},
		{"short yes", "y\n", true},
		{"upper case", "  YES \n", true},
		{"no", "no\n", false},
		{"anything else", "maybe\n", false},
		{"no newline", "y", true},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := confirm(strings.NewReader(v.input), &out, "Continue?")
			require.NoError(t, err)
			assert.Equal(t, v.want, ok)
			assert.Contains(t, out.String(), "Continue? (yes/no)")
		})
	}

	ok, err := confirm(failReader{}, new(bytes.Buffer), "Continue?")
	assert.Error(t, err)
	assert.False(t, ok)
}
