package attr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncode(t *testing.T) {
	d, err := Encode(Hex)
	require.NoError(t, err)
	require.Equal(t, [2]byte{Sentinel, byte(Hex)}, d)

	_, err = Encode(Group(10))
	require.ErrorIs(t, err, ErrUnknownGroup)
}

func TestMarshal(t *testing.T) {
	l := buildLine(Text, "", Keyword, "int", Text, " x")

	b, err := Marshal(l)
	require.NoError(t, err)
	require.Equal(t, []byte{Sentinel, 0, Sentinel, byte(Keyword), 'i', 'n', 't', Sentinel, 0, ' ', 'x'}, b)
}

func TestMarshal_RejectsSentinelInText(t *testing.T) {
	_, err := Marshal(Plain("a\x7fb"))
	require.ErrorIs(t, err, ErrSentinelInText)
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := Unmarshal([]byte{'a', Sentinel})
	require.ErrorIs(t, err, ErrDanglingSentinel)

	_, err = Unmarshal([]byte{Sentinel, 77, 'a'})
	require.ErrorIs(t, err, ErrUnknownGroup)
}

func TestDecoder_Runs(t *testing.T) {
	stream := []byte{'a', Sentinel, byte(Path), Sentinel, byte(Hex), 'b', 'c', Sentinel, byte(Text), 'd', Sentinel, byte(Comment)}

	type run struct {
		text  string
		group Group
	}
	var got []run
	d := NewDecoder(stream)
	for d.Next() {
		got = append(got, run{string(d.Run()), d.Group()})
	}
	require.NoError(t, d.Err())
	require.Equal(t, []run{{"a", Text}, {"bc", Hex}, {"d", Text}}, got)
}

func TestDecoder_StopsOnError(t *testing.T) {
	d := NewDecoder([]byte{'a', Sentinel, 200, 'b'})
	require.True(t, d.Next())
	require.Equal(t, "a", string(d.Run()))
	require.False(t, d.Next())
	require.ErrorIs(t, d.Err(), ErrUnknownGroup)
	require.False(t, d.Next())
}

func TestStrip(t *testing.T) {
	b, err := Strip([]byte{Sentinel, byte(Keyword), 'f', 'o', 'r', Sentinel, 0, ' ', 'i'})
	require.NoError(t, err)
	require.Equal(t, "for i", string(b))
}

func TestProperty_MarshalRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genLine(rt)

		b, err := Marshal(l)
		require.NoError(rt, err)

		back, err := Unmarshal(b)
		require.NoError(rt, err)
		require.True(rt, l.Equal(back), "round trip changed %s into %s", l, back)

		stripped, err := Strip(b)
		require.NoError(rt, err)
		require.Equal(rt, l.Text(), string(stripped))
	})
}
