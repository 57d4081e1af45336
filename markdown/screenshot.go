package markdown

import (
	"fmt"
	"html"
	"regexp"

	"github.com/russross/blackfriday/v2"
)

// screenshotRegexp finds the screenshot kind in an image path, as in /img/mobile__home.png.
var screenshotRegexp = regexp.MustCompile(`/(\w+)__`)

// Screenshots returns a plugin that turns a paragraph holding nothing but a
// screenshot image into a block classed by the screenshot kind:
//
//	<div class="screenshot screenshot_mobile"><img src="/img/mobile__home.png" alt="Title"></div>
//
// The alt text is taken from the image title.
func Screenshots() Plugin {
	return func(doc *blackfriday.Node) error {
		paras := collect(doc, blackfriday.Paragraph, func(p *blackfriday.Node) bool {
			img := p.FirstChild
			return img != nil && img == p.LastChild && img.Type == blackfriday.Image &&
				screenshotRegexp.Match(img.LinkData.Destination)
		})
		for _, p := range paras {
			img := p.FirstChild
			m := screenshotRegexp.FindSubmatch(img.LinkData.Destination)
			out := fmt.Sprintf(`<div class="screenshot screenshot_%s"><img src="%s" alt="%s"></div>`,
				m[1], html.EscapeString(string(img.LinkData.Destination)), html.EscapeString(string(img.LinkData.Title)))
			replaceWithHTML(p, []byte(out))
		}
		return nil
	}
}

// soleChild returns the only child of p, ignoring empty text nodes, or nil.
// The parser emits an empty text node ahead of an image that starts a paragraph.
func soleChild(p *blackfriday.Node) *blackfriday.Node {
	var only *blackfriday.Node
	for c := p.FirstChild; c != nil; c = c.Next {
		if c.Type == blackfriday.Text && len(c.Literal) == 0 {
			continue
		}
		if only != nil {
			return nil
		}
		only = c
	}
	return only
}
