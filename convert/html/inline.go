package html

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func (r *renderer) renderText(parent *etree.Element, u *emissionUnit) {
	content := strings.TrimRight(u.text, "\n")
	if content == "" {
		return
	}
	if fam := u.style.FontFamily(); fam != "" {
		r.fonts[fam] = struct{}{}
	}

	classes, css, href := textClasses(&u.style), textCSS(&u.style), linkHref(u.style.Link)

	el := parent
	switch {
	case href != "":
		el = parent.CreateElement("a")
		el.CreateAttr("href", href)
	case len(classes) > 0 || css != "":
		el = parent.CreateElement("span")
	}
	if el != parent {
		if len(classes) > 0 {
			el.CreateAttr("class", strings.Join(classes, " "))
		}
		if css != "" {
			el.CreateAttr("style", css)
		}
	}
	appendText(el, content)
}

// appendText adds text turning vertical tabs (soft line breaks) into <br/>.
func appendText(el *etree.Element, s string) {
	for i, part := range strings.Split(s, "\v") {
		if i > 0 {
			el.CreateElement("br")
		}
		if part != "" {
			el.CreateText(part)
		}
	}
}

// renderImage emits image for inline object. Objects which are not images
// are ignored, images which cannot be resolved are omitted and remembered.
func (r *renderer) renderImage(parent *etree.Element, id string) {
	obj := r.doc.InlineObject(id)
	if obj == nil || obj.ContentURI() == "" {
		r.log.Debug("Inline object is not an image, skipping", zap.String("id", id))
		return
	}
	if r.opts.Images == nil {
		r.assetErr = multierr.Append(r.assetErr, fmt.Errorf("image %q: no image resolver", id))
		return
	}
	src, err := r.opts.Images.ResolveImage(r.ctx, id, obj)
	if err != nil {
		r.log.Debug("Unable to resolve image", zap.String("id", id), zap.Error(err))
		r.assetErr = multierr.Append(r.assetErr, fmt.Errorf("image %q: %w", id, err))
		return
	}

	img := parent.CreateElement("img")
	img.CreateAttr("src", src)
	img.CreateAttr("alt", obj.AltText())
	if w, h, ok := obj.DisplaySize(); ok {
		img.CreateAttr("style", fmt.Sprintf("max-width:%dpx; max-height:%dpx;", w, h))
	}
}
