package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEmptyInput(t *testing.T) {
	_, err := Split("", Config{MaxChars: 100})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Split("   \n\t  ", Config{MaxChars: 100})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSplitSingleChunkShortCircuit(t *testing.T) {
	text := "Patient reports chest pain and shortness of breath."
	chunks, err := Split(text, Config{MaxChars: 6000, Overlap: 200, Backtrack: 100})
	assert.NoError(t, err)
	assert.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len([]rune(text)), chunks[0].End)
	assert.Equal(t, 0, chunks[0].Overlap)
}

func TestSplitReconstructsExactly(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  Config
	}{
		{
			name: "sentences with overlap",
			text: strings.Repeat("The patient was seen in clinic today. Vitals were stable on examination. ", 40),
			cfg:  Config{MaxChars: 300, Overlap: 50, Backtrack: 80},
		},
		{
			name: "no overlap",
			text: strings.Repeat("Follow up in two weeks for repeat labs. ", 30),
			cfg:  Config{MaxChars: 200, Overlap: 0, Backtrack: 60},
		},
		{
			name: "no boundaries in window",
			text: strings.Repeat("x", 1000),
			cfg:  Config{MaxChars: 128, Overlap: 16, Backtrack: 32},
		},
		{
			name: "unicode content",
			text: strings.Repeat("Температура 38°C, пациент жалуется на боль. ", 25),
			cfg:  Config{MaxChars: 150, Overlap: 20, Backtrack: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.cfg)
			assert.NoError(t, err)
			assert.Equal(t, tt.text, Reconstruct(chunks))
		})
	}
}

func TestSplitOrderedAndBounded(t *testing.T) {
	text := strings.Repeat("Blood pressure was recorded at every visit. ", 50)
	cfg := Config{MaxChars: 250, Overlap: 40, Backtrack: 60}

	chunks, err := Split(text, cfg)
	assert.NoError(t, err)
	assert.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, c.End-c.Start, cfg.MaxChars)
		if i > 0 {
			assert.Equal(t, chunks[i-1].End-c.Start, c.Overlap)
			assert.Greater(t, c.Start, chunks[i-1].Start)
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	// A sentence end sits inside the backtrack window; the cut must land
	// after it instead of mid-word at the hard limit.
	text := "The lesion was excised without complication. Pathology was requested for the excised tissue and results are pending review."
	chunks, err := Split(text, Config{MaxChars: 60, Overlap: 0, Backtrack: 30})
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "complication."))
}

func TestSplitNeverCutsInsideWordWhenWhitespaceInWindow(t *testing.T) {
	text := strings.Repeat("electrocardiogram ", 60)
	chunks, err := Split(text, Config{MaxChars: 100, Overlap: 0, Backtrack: 25})
	assert.NoError(t, err)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, " "), "chunk %d ends mid-token: %q", c.Index, c.Text)
	}
}

func TestSplitOverlapLargerThanChunkFallsBack(t *testing.T) {
	text := strings.Repeat("a b c d e f g h. ", 40)
	chunks, err := Split(text, Config{MaxChars: 50, Overlap: 50, Backtrack: 10})
	assert.NoError(t, err)
	// overlap >= max chars would stall; the splitter must still terminate
	// and reconstruct.
	assert.Equal(t, text, Reconstruct(chunks))
}
