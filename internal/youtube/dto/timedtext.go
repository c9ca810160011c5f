package dto

import (
	"encoding/xml"
	"html"
	"strings"
	"time"

	"github.com/handiism/youtube-player/internal/model"
)

// XMLTranscript is the default timed-text body: seconds as decimal
// attributes and HTML-escaped text.
//
//	<transcript>
//	  <text start="0.5" dur="1.25">Hello &amp;#39;world&amp;#39;</text>
//	</transcript>
type XMLTranscript struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []XMLText `xml:"text"`
}

// XMLText is one line of an XMLTranscript.
type XMLText struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// ToCues converts the transcript to model cues, dropping empty lines.
func (t *XMLTranscript) ToCues() []model.Cue {
	cues := make([]model.Cue, 0, len(t.Texts))
	for _, text := range t.Texts {
		line := cleanText(text.Text)
		if line == "" {
			continue
		}
		cues = append(cues, model.Cue{
			Offset:   seconds(text.Start),
			Duration: seconds(text.Dur),
			Text:     line,
		})
	}
	return cues
}

// XMLTimedText is the "format 3" timed-text body: milliseconds as integer
// attributes, optionally split into word segments.
//
//	<timedtext format="3"><body>
//	  <p t="500" d="1250">Hello <s>world</s></p>
//	</body></timedtext>
type XMLTimedText struct {
	XMLName    xml.Name       `xml:"timedtext"`
	Paragraphs []XMLParagraph `xml:"body>p"`
}

// XMLParagraph is one cue of an XMLTimedText.
type XMLParagraph struct {
	T     int64  `xml:"t,attr"`
	D     int64  `xml:"d,attr"`
	Inner string `xml:",innerxml"`
}

// Text returns the paragraph's character data in document order, with the
// <s> segment markup removed.
func (p XMLParagraph) Text() string {
	var b strings.Builder
	dec := xml.NewDecoder(strings.NewReader(p.Inner))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if data, ok := tok.(xml.CharData); ok {
			b.Write(data)
		}
	}
	return b.String()
}

// ToCues converts the timed text to model cues, dropping empty paragraphs.
func (t *XMLTimedText) ToCues() []model.Cue {
	cues := make([]model.Cue, 0, len(t.Paragraphs))
	for _, p := range t.Paragraphs {
		line := cleanText(p.Text())
		if line == "" {
			continue
		}
		cues = append(cues, model.Cue{
			Offset:   time.Duration(p.T) * time.Millisecond,
			Duration: time.Duration(p.D) * time.Millisecond,
			Text:     line,
		})
	}
	return cues
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// cleanText undoes the second level of escaping the service applies and
// trims surrounding whitespace.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
