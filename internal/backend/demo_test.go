package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conch/internal/normalize"
)

func TestDemoMotionFamily(t *testing.T) {
	demo := NewDemo()

	reply := demo.Reply("what is running?")
	pool := demo.Replies("what is running?")

	require.NotEmpty(t, pool)
	assert.Contains(t, pool, reply)
	assert.True(t, strings.HasSuffix(reply, "?"))
}

func TestDemoNoMatchIsClarifyingReply(t *testing.T) {
	demo := NewDemo()

	reply := demo.Reply("hello")
	assert.Equal(t, ClarifyingReply, reply)
	assert.True(t, strings.HasSuffix(reply, "?"))
}

func TestDemoDeterministic(t *testing.T) {
	demo := NewDemo()

	for _, prompt := range []string{"what is the sky?", "tell me about camels", "hello", "what is a tree"} {
		first := demo.Reply(prompt)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, demo.Reply(prompt), "prompt %q", prompt)
		}
	}
}

func TestDemoKeywordMatchesAtWordStart(t *testing.T) {
	demo := NewDemo()

	// "air" counts at the start of a word, including the start of the prompt.
	pool := demo.Replies("air is what exactly?")
	require.NotEmpty(t, pool)
	assert.Contains(t, pool, demo.Reply("air is what exactly?"))
	assert.Equal(t, pool, demo.Replies("what is the air like up there?"))

	// Embedded in another word it does not count.
	assert.Equal(t, ClarifyingReply, demo.Reply("what is hair?"))

	// Prefix matches still extend to longer words.
	assert.NotEmpty(t, demo.Replies("what is running?"))
}

func TestDemoCaseInsensitive(t *testing.T) {
	demo := NewDemo()
	assert.Equal(t, demo.Reply("WHAT IS RUNNING?"), demo.Reply("what is running?"))
}

func TestDemoCallNeverFails(t *testing.T) {
	demo := NewDemo()

	for _, prompt := range []string{"", "what is land?", "zzzzz", strings.Repeat("x", 10_000)} {
		got, err := demo.Call(context.Background(), prompt, "ignored", 0, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	}
}

func TestDemoRepliesSurviveNormalization(t *testing.T) {
	// Every authored reply must already satisfy the reply contract, so the
	// normalizer passes it through and fallback replies stay byte-identical
	// to direct demo replies.
	for _, fam := range families {
		for _, reply := range fam.replies {
			assert.True(t, strings.HasSuffix(reply, "?"), "family %s reply %q", fam.name, reply)
			assert.Equal(t, reply, normalize.Normalize(reply), "family %s", fam.name)
		}
	}
	assert.Equal(t, ClarifyingReply, normalize.Normalize(ClarifyingReply))
}
