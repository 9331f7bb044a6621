package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRejectedUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{"server message wins", 400, "Post not found", "Post not found"},
		{"blank falls back", 500, "   ", GenericMessage},
		{"empty falls back", 502, "", GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ServerRejected(tt.status, tt.message)
			assert.Equal(t, tt.want, UserMessage(err))
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestServerErrorHasSuggestion(t *testing.T) {
	assert.True(t, ServerRejected(500, "boom").HasSuggestion())
	assert.False(t, ServerRejected(400, "bad").HasSuggestion())
}

func TestSelfWitness(t *testing.T) {
	err := SelfWitness(400, "You cannot witness your own report.")

	assert.True(t, Is(err, KindSelfWitness))
	assert.False(t, Is(err, KindServerRejected))
	assert.Equal(t, SelfWitnessExplanation, UserMessage(err))
	assert.NotContains(t, FormatError(err), "Suggestion:")
}

func TestIsSelfWitnessMessage(t *testing.T) {
	assert.True(t, IsSelfWitnessMessage("You cannot witness your own report."))
	assert.True(t, IsSelfWitnessMessage("cannot WITNESS own report"))
	assert.False(t, IsSelfWitnessMessage("Report not found"))
	assert.False(t, IsSelfWitnessMessage(""))
}

func TestCategorize(t *testing.T) {
	assert.Nil(t, Categorize(nil))

	structured := InvalidState("toggle already pending")
	wrapped := fmt.Errorf("save: %w", structured)
	assert.Same(t, structured, Categorize(wrapped))

	netErr := Categorize(fmt.Errorf("dial tcp 127.0.0.1:1: connect: connection refused"))
	assert.Equal(t, KindNetwork, netErr.Kind)
	assert.True(t, netErr.HasSuggestion())

	deadline := Categorize(context.DeadlineExceeded)
	assert.Equal(t, KindNetwork, deadline.Kind)
	assert.ErrorIs(t, deadline, context.DeadlineExceeded)
}

func TestUserMessageByKind(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, GenericMessage, UserMessage(NetworkFailure(fmt.Errorf("timeout"))))
	assert.Equal(t, "text cannot be empty", UserMessage(Validation("text", "cannot be empty")))
	assert.Contains(t, UserMessage(Unsupported("event", "witness-submit")), "not supported")
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))

	out := FormatError(ServerRejected(503, ""))
	require.Contains(t, out, "server_rejected")
	assert.Contains(t, out, GenericMessage)
	assert.Contains(t, out, "Suggestion:")
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "server_rejected [404]: missing", ServerRejected(404, "missing").Error())
	assert.Equal(t, "invalid_state: pending", InvalidState("pending").Error())
}
