package idx_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/pkg/idx"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1M"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())

	ids := []string{b.String(), a.String()}
	sort.Strings(ids)
	require.Equal(t, []string{a.String(), b.String()}, ids)
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)
	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
}

func TestMustParse(t *testing.T) {
	require.NotPanics(t, func() {
		idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
	})
	require.Panics(t, func() {
		idx.MustParse("bogus")
	})
}
