package snapshot

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kersley/attend/internal/catalog"
)

func TestEncodeDecode_RestoresTypedAnswers(t *testing.T) {
	in := Snapshot{
		CurrentIndex: 12,
		AccountEmail: "grace@example.org",
		Answers: catalog.Answers{
			"role":       "Speaker",
			"experience": 7,
			"workshops":  true,
			"themes":     []string{"Generics", "Fuzzing"},
		},
	}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 12, out.CurrentIndex)
	require.Equal(t, "grace@example.org", out.AccountEmail)
	require.Equal(t, "Speaker", out.Answers["role"])
	require.Equal(t, 7, out.Answers["experience"], "integers survive the JSON round trip as int")
	require.Equal(t, true, out.Answers["workshops"])
	require.Equal(t, []string{"Generics", "Fuzzing"}, out.Answers["themes"])
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string][]byte{
		"not base64":   []byte("definitely *** not base64 ***"),
		"not json":     []byte(base64.StdEncoding.EncodeToString([]byte("not json at all"))),
		"negative idx": []byte(base64.StdEncoding.EncodeToString([]byte(`{"currentIndex":-3}`))),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_NilAnswersBecomeEmptyMap(t *testing.T) {
	data, err := Encode(Snapshot{CurrentIndex: 0})
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, out.Answers)
	require.Empty(t, out.Answers)
}
