package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/todo-api/internal/service/auth"
)

func TestHashPasswordCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		stdin     string
		passwords []string
	}{
		{name: "arguments", args: []string{"password123", "тест123"}, passwords: []string{"password123", "тест123"}},
		{name: "stdin", stdin: "first-password\n\nsecond-password\n", passwords: []string{"first-password", "second-password"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			cmd := newHashPasswordCommand()
			cmd.SetArgs(append([]string{"--cost", "4"}, tc.args...))
			cmd.SetIn(strings.NewReader(tc.stdin))
			cmd.SetOut(&out)

			require.NoError(t, cmd.Execute())

			digests := strings.Fields(out.String())
			require.Len(t, digests, len(tc.passwords))
			hasher := auth.NewBcryptHasher(bcrypt.MinCost)
			for i, pw := range tc.passwords {
				assert.True(t, hasher.Verify(pw, digests[i]))
			}
		})
	}
}

func TestHashPasswordCommandRequiresInput(t *testing.T) {
	t.Parallel()
	cmd := newHashPasswordCommand()
	cmd.SetArgs([]string{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
