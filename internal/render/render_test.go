package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

func TestMarks_FirstHitKeepsSharedLetter(t *testing.T) {
	// Given: two hits sharing grid position 4
	hits := []sequence.Hit{
		{Term: "ACE", Index: 0, Skip: 2},
		{Term: "EF", Index: 4, Skip: 1},
	}

	// When: computing marks over a 6-letter grid
	marks := Marks(6, hits)

	// Then: hit 1 owns 0, 2 and 4; hit 2 owns 5
	assert.Equal(t, map[int]int{0: 1, 2: 1, 4: 1, 5: 2}, marks)
}

func TestMarks_IgnoresPositionsOutsideGrid(t *testing.T) {
	marks := Marks(3, []sequence.Hit{{Term: "AB", Index: 2, Skip: 5}})
	assert.Equal(t, map[int]int{2: 1}, marks)
}

func TestTermNumbers(t *testing.T) {
	hits := []sequence.Hit{{Term: "AB"}, {Term: "BA"}, {Term: "AB"}}
	assert.Equal(t, map[string]int{"AB": 1, "BA": 2}, TermNumbers(hits))
}

func TestTextRenderer_PlainMarksTerms(t *testing.T) {
	// Given: a grid with one hit at skip 2
	r := &TextRenderer{}
	hits := []sequence.Hit{{Term: "ACE", Index: 0, Skip: 2}}

	// When: rendering
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "ABCDEFG", hits))

	// Then: rows are as wide as the skip and hit letters carry the term number
	assert.Equal(t, "A1B \nC1D \nE1F \nG \n", buf.String())
}

func TestTextRenderer_FixedWidth(t *testing.T) {
	r := &TextRenderer{Style: Style{Width: 4}}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "ABCDEFG", []sequence.Hit{{Term: "BF", Index: 1, Skip: 4}}))

	assert.Equal(t, "A B1C D \nE F1G \n", buf.String())
}

func TestTextRenderer_ColorKeepsLetters(t *testing.T) {
	r := &TextRenderer{Style: Style{Color: true, Width: 10}}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "ABCDEFG", []sequence.Hit{{Term: "ACE", Index: 0, Skip: 2}}))

	for _, l := range "ABCDEFG" {
		assert.Contains(t, buf.String(), string(l))
	}
}

func TestTextRenderer_EmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, "", nil))
	assert.Equal(t, "(no hits)\n", buf.String())
}

func TestRTFRenderer_Document(t *testing.T) {
	// Given: a Hebrew grid rendered right to left
	r := &RTFRenderer{Style: Style{RightToLeft: true, Width: 3}}
	hits := []sequence.Hit{{Term: "אג", Index: 0, Skip: 2}}

	// When: rendering
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "אבגד", hits))
	out := buf.String()

	// Then: the document has a header, one color, escaped letters and RTL rows
	assert.True(t, strings.HasPrefix(out, "{\\rtf1"))
	assert.Contains(t, out, "Consolas")
	assert.Contains(t, out, "{\\colortbl;\\red192\\green0\\blue0;}")
	assert.Contains(t, out, "{\\b\\cf1 \\u1488?}")
	assert.Contains(t, out, "\\u1489? ")
	assert.Contains(t, out, "\\rtlpar")
	assert.Equal(t, 2, strings.Count(out, "\\par\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestRTFRenderer_EscapesControlCharacters(t *testing.T) {
	assert.Equal(t, "\\{", escapeRune('{'))
	assert.Equal(t, "\\\\", escapeRune('\\'))
	assert.Equal(t, "A", escapeRune('A'))
	assert.Equal(t, "\\u913?", escapeRune('Α'))
}

func TestJSONRenderer(t *testing.T) {
	// Given: a grid with a hit
	r := &JSONRenderer{}
	hits := []sequence.Hit{{Term: "ACE", Index: 0, Start: 0, Skip: 2}}

	// When: rendering
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "ABCDEFG", hits))

	// Then: it decodes with rows and letter positions
	var got struct {
		Grid  string   `json:"grid"`
		Width int      `json:"width"`
		Rows  []string `json:"rows"`
		Hits  []struct {
			Term      string `json:"term"`
			Skip      int    `json:"skip"`
			Positions []int  `json:"positions"`
		} `json:"hits"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ABCDEFG", got.Grid)
	assert.Equal(t, 2, got.Width)
	assert.Equal(t, []string{"AB", "CD", "EF", "G"}, got.Rows)
	require.Len(t, got.Hits, 1)
	assert.Equal(t, []int{0, 2, 4}, got.Hits[0].Positions)
}

func TestNewAndParseFormat(t *testing.T) {
	for _, f := range Formats {
		r, err := New(f, Style{})
		require.NoError(t, err)
		assert.NotNil(t, r)
	}

	f, err := ParseFormat(" RTF ")
	require.NoError(t, err)
	assert.Equal(t, FormatRTF, f)

	_, err = ParseFormat("pdf")
	assert.Equal(t, elserrors.ErrCodeUnknownFormat, elserrors.GetCode(err))

	_, err = New(Format("pdf"), Style{})
	assert.Error(t, err)
}
