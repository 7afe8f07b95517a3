package customcat

import (
	"encoding/json"
	"strings"
)

// Metadata envelope stored on imported products. customcat_original is the
// untouched provider record; customcat_data is the normalized subset kept
// for older imports that predate raw retention.
type metaEnvelope struct {
	Original *originalRecord `json:"customcat_original"`
	Data     *normalizedData `json:"customcat_data"`
}

type originalRecord struct {
	ProductImage     string  `json:"product_image"`
	ProductBackImage string  `json:"product_back_image"`
	ProductColors    []Color `json:"product_colors"`
}

type normalizedData struct {
	ProductColors []Color `json:"product_colors"`
}

// ResolveImages picks the display image and thumbnail for an imported
// product from its metadata, falling through three layers:
//
//  1. the original record's primary image (back image as thumbnail),
//  2. the first original product_colors entry that carries an image,
//  3. the first normalized customcat_data product_colors entry with one.
//
// Protocol-relative URLs are rewritten to https. When no layer yields an
// image, the current values are returned untouched.
func ResolveImages(metadata, currentImage, currentThumb string) (string, string) {
	var m metaEnvelope
	if err := json.Unmarshal([]byte(metadata), &m); err != nil {
		return currentImage, currentThumb
	}

	if m.Original != nil && m.Original.ProductImage != "" {
		img := secureURL(m.Original.ProductImage)
		thumb := currentThumb
		if m.Original.ProductBackImage != "" {
			thumb = secureURL(m.Original.ProductBackImage)
		}
		return img, thumb
	}

	var colors []Color
	if m.Original != nil {
		colors = m.Original.ProductColors
	}
	c := firstColorWithImage(colors)
	if c == nil && m.Data != nil {
		c = firstColorWithImage(m.Data.ProductColors)
	}
	if c == nil {
		return currentImage, currentThumb
	}

	img := secureURL(c.ProductImage)
	thumb := currentThumb
	if c.ProductBackImage != "" {
		thumb = secureURL(c.ProductBackImage)
	}
	return img, thumb
}

func firstColorWithImage(colors []Color) *Color {
	for i := range colors {
		if colors[i].ProductImage != "" {
			return &colors[i]
		}
	}
	return nil
}

// secureURL rewrites protocol-relative CDN URLs to explicit https.
func secureURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
