package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	t.Run("zero length is rejected", func(t *testing.T) {
		opts := NewAnonymousOptions(0)
		err := opts.validate()
		require.Error(t, err)
		var mErr *Error
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, ErrZeroSizedMapping, mErr.Kind)
	})

	t.Run("non power of two alignment is rejected", func(t *testing.T) {
		opts := NewAnonymousOptions(4096).WithAlignment(3000)
		err := opts.validate()
		require.Error(t, err)
		var mErr *Error
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, ErrAlignment, mErr.Kind)
	})

	t.Run("write without read is rejected", func(t *testing.T) {
		opts := NewAnonymousOptions(4096).WithProtection(ProtWrite)
		err := opts.validate()
		require.Error(t, err)
		var mErr *Error
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, ErrProtection, mErr.Kind)
	})

	t.Run("file backed without path is rejected", func(t *testing.T) {
		opts := NewOptions("", 0, 4096)
		err := opts.validate()
		require.Error(t, err)
		var mErr *Error
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, ErrInvalidArgument, mErr.Kind)
	})

	t.Run("valid anonymous options pass", func(t *testing.T) {
		opts := NewAnonymousOptions(4096)
		assert.NoError(t, opts.validate())
	})

	t.Run("valid file backed options pass", func(t *testing.T) {
		opts := NewOptions("/tmp/whatever", 0, 4096)
		assert.NoError(t, opts.validate())
	})
}

func TestDefaultProtectionIsReadOnly(t *testing.T) {
	anon := NewAnonymousOptions(4096)
	assert.Equal(t, ProtRead, anon.protection)

	file := NewOptions("/tmp/whatever", 0, 4096)
	assert.Equal(t, ProtRead, file.protection)
}

func TestWithStackHint(t *testing.T) {
	opts := NewAnonymousOptions(4096).WithStackHint(true)
	assert.True(t, opts.stackHint)
}

func TestAdviceString(t *testing.T) {
	cases := map[Advice]string{
		AdviceNormal:         "normal",
		AdviceRandom:         "random",
		AdviceSequential:     "sequential",
		AdviceWillNeed:       "will_need",
		AdviceDontNeed:       "dont_need",
		AdviceSequentialOnce: "sequential_once",
		AdviceRandomOnce:     "random_once",
		AdviceFree:           "free",
	}

	for advice, want := range cases {
		t.Run(want, func(t *testing.T) {
			assert.Equal(t, want, advice.String())
		})
	}
}
