package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMarkup = []byte(`
<html>
  <body>
    <h1 class="title">  Fancy Gadget  </h1>
    <div class="pricing">
      <span class="price">$1,299.00</span>
      <span class="price">$999.00</span>
    </div>
    <div class="empty"></div>
  </body>
</html>`)

func TestSelectorExtractor(t *testing.T) {
	extractor := NewSelectorExtractor()

	text, ok := extractor.Extract(testMarkup, ".price")
	assert.True(t, ok)
	assert.Equal(t, "$1,299.00", text, "first match wins")

	text, ok = extractor.Extract(testMarkup, "h1.title")
	assert.True(t, ok)
	assert.Equal(t, "Fancy Gadget", text, "text is trimmed")
}

func TestSelectorExtractorAbsence(t *testing.T) {
	extractor := NewSelectorExtractor()

	_, ok := extractor.Extract(testMarkup, ".does-not-exist")
	assert.False(t, ok)

	_, ok = extractor.Extract(testMarkup, ".empty")
	assert.False(t, ok, "empty text counts as absent")

	_, ok = extractor.Extract(testMarkup, "")
	assert.False(t, ok, "empty locator is always absent")
}
