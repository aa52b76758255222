package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKind(t *testing.T) {
	err := Errorf(KindNotFound, "request %s not found", "abc")

	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestIsKindWrapped(t *testing.T) {
	err := fmt.Errorf("calling peer: %w", Errorf(KindUnavailable, "no responders"))
	assert.True(t, IsKind(err, KindUnavailable))
}

func TestErrorRoundTrip(t *testing.T) {
	src := Errorf(KindDuplicate, "pending request already exists")

	data, err := json.Marshal(envelope{Error: src})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, KindDuplicate, env.Error.Kind)
	assert.Equal(t, src.Message, env.Error.Message)
	assert.Nil(t, env.Data)
}

func TestDecode(t *testing.T) {
	type req struct {
		UserID string `json:"userId"`
	}

	got, err := Decode[req]([]byte(`{"userId":"u-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
}

func TestDecodeMalformed(t *testing.T) {
	type req struct {
		UserID string `json:"userId"`
	}

	_, err := Decode[req]([]byte(`{"userId":`))
	assert.True(t, IsKind(err, KindValidation))
}

func TestToWirePassesTypedErrorsThrough(t *testing.T) {
	r := NewRouter("test-service", time.Second, nil)

	src := Errorf(KindNotFound, "gone")
	assert.Same(t, src, r.toWire(src))
}

func TestToWireUsesMapper(t *testing.T) {
	sentinel := errors.New("user not found")
	r := NewRouter("test-service", time.Second, func(err error) *Error {
		if errors.Is(err, sentinel) {
			return Errorf(KindNotFound, "%s", err)
		}
		return nil
	})

	wired := r.toWire(fmt.Errorf("lookup: %w", sentinel))
	assert.Equal(t, KindNotFound, wired.Kind)
}

// TestToWireHidesUnmappedErrors : une erreur inconnue ne doit jamais fuir son
// message vers le pair.
func TestToWireHidesUnmappedErrors(t *testing.T) {
	r := NewRouter("test-service", time.Second, func(error) *Error { return nil })

	wired := r.toWire(errors.New("pq: connection refused on 10.0.0.3"))
	assert.Equal(t, KindInternal, wired.Kind)
	assert.NotContains(t, wired.Message, "10.0.0.3")
}
