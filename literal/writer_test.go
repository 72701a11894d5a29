package literal

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jkrsave/errs"
	"github.com/arloliu/jkrsave/value"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		in       value.Value
		expected string
	}{
		{
			name:     "empty mapping",
			in:       value.MapOf(),
			expected: `return {}`,
		},
		{
			name:     "string keys in insertion order",
			in:       value.MapOf("b", value.Int(2), "a", value.Int(1)),
			expected: `return {["b"]=2,["a"]=1,}`,
		},
		{
			name:     "index keys",
			in:       indexed(1, value.Bool(true), 2, value.Bool(false)),
			expected: `return {[1]=true,[2]=false,}`,
		},
		{
			name:     "sequence written 1-based",
			in:       value.Sequence(value.String("x"), value.Null()),
			expected: `return {[1]="x",[2]=nil,}`,
		},
		{
			name:     "nested",
			in:       value.MapOf("GAME", value.MapOf("round", value.Int(3))),
			expected: `return {["GAME"]={["round"]=3,},}`,
		},
		{
			name:     "scalar",
			in:       value.String("hi"),
			expected: `return "hi"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_Numbers(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
		{3.25, "3.25"},
		{0.1, "0.1"},
		{123456789012, "123456789012"},
		{1e15, "1e+15"},
		{1.5e-7, "1.5e-07"},
		{math.Inf(1), "1e309"},
		{math.Inf(-1), "-1e309"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := Format(value.Number(tt.in))
			require.NoError(t, err)
			require.Equal(t, "return "+tt.expected, got)

			back := mustParse(t, got)
			n, ok := back.AsNumber()
			require.True(t, ok)
			require.Equal(t, tt.in, n)
		})
	}
}

func TestFormat_Strings(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"a\nb\tc\rd", `"a\nb\tc\rd"`},
		{"\x00\x1f\x7f", `"\000\031\127"`},
		{"\x011", `"\0011"`},
		{"héllo ♠", `"héllo ♠"`},
		{"bad\xffutf8", `"bad\255utf8"`},
		{`["x"]=,}`, `"[\"x\"]=,}"`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := Format(value.String(tt.in))
			require.NoError(t, err)
			require.Equal(t, "return "+tt.expected, got)

			back := mustParse(t, got)
			s, ok := back.AsString()
			require.True(t, ok)
			require.Equal(t, tt.in, s)
		})
	}
}

func TestFormat_KeysAreEscaped(t *testing.T) {
	got, err := Format(value.MapOf(`we"ird`, value.Int(1)))
	require.NoError(t, err)
	require.Equal(t, `return {["we\"ird"]=1,}`, got)
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format(value.MapOf("x", value.Number(math.NaN())))
	require.ErrorIs(t, err, errs.ErrEncode)

	v := value.Int(1)
	for range DefaultMaxDepth + 2 {
		v = value.MapOf("n", v)
	}
	_, err = Format(v)
	require.ErrorIs(t, err, errs.ErrEncode)
}

func TestFormat_StrictParserAcceptsOutput(t *testing.T) {
	tree := value.MapOf(
		"a", value.MapOf("b", value.MapOf()),
		"c", indexed(1, value.String("x")),
	)

	text, err := Format(tree)
	require.NoError(t, err)

	_, err = Parse(text, WithStrictTrailingComma())
	require.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		`return {["a"]=1,["b"]={[1]="x",[2]="y",},}`,
		`return {[1]="a",["b"]=2,}`,
		`return {["cards"]={[1]={["suit"]="Hearts",["rank"]=10,},[2]={["suit"]="Spades",["rank"]=14,},},}`,
		`return {["holes"]={[1]=1,[2]=nil,[3]=3,},}`,
		`return {["n"]=-0.5,["big"]=1e+300,["s"]="line\nbreak",}`,
		`return {}`,
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			tree := Promote(mustParse(t, text), 0)

			keyed, err := Demote(tree)
			require.NoError(t, err)

			out, err := Format(keyed)
			require.NoError(t, err)
			require.Equal(t, text, out)
		})
	}
}

func TestRoundTrip_SparseGrowsHoles(t *testing.T) {
	tree := Promote(mustParse(t, `return {[1]="a",[3]="c",}`), 0)

	keyed, err := Demote(tree)
	require.NoError(t, err)

	out, err := Format(keyed)
	require.NoError(t, err)
	require.Equal(t, `return {[1]="a",[2]=nil,[3]="c",}`, out)
	require.True(t, strings.HasPrefix(out, "return {"))
}
