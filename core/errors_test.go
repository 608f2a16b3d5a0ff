package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticationError(t *testing.T) {
	err := fmt.Errorf("advisor: %w", &AuthenticationError{Provider: "openai"})

	assert.True(t, errors.Is(err, ErrNoCredential))
	assert.True(t, IsAuthentication(err))
	assert.False(t, IsAuthentication(errors.New("other")))
}

func TestRequestError_Message(t *testing.T) {
	withMsg := &RequestError{Provider: "openai", StatusCode: 429, Message: "rate limited"}
	assert.Equal(t, "openai: request failed (status 429): rate limited", withMsg.Error())

	generic := &RequestError{Provider: "openai"}
	assert.Equal(t, "openai: request failed: API call failed", generic.Error())
}

func TestDecision(t *testing.T) {
	assert.Equal(t, Decision{ShouldAsk: true, Question: "Who pays?"}, Ask(" Who pays? "))
	assert.Equal(t, Decline(), NewDecision(true, "   "))
	assert.Equal(t, Decline(), NewDecision(false, "ignored"))
}
