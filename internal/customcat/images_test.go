package customcat_test

import (
	"testing"

	"stagepass/internal/customcat"
)

func TestResolveImages_OriginalRecordWins(t *testing.T) {
	meta := `{"customcat_original": {
	  "product_image": "//cdn.example.com/a.jpg",
	  "product_back_image": "//cdn.example.com/a-back.jpg",
	  "product_colors": [{"product_image": "//cdn.example.com/ignored.jpg"}]
	}}`
	img, thumb := customcat.ResolveImages(meta, "", "")
	if img != "https://cdn.example.com/a.jpg" {
		t.Fatalf("want original image with https, got %q", img)
	}
	if thumb != "https://cdn.example.com/a-back.jpg" {
		t.Fatalf("want back image as thumbnail, got %q", thumb)
	}
}

func TestResolveImages_ColorFallback(t *testing.T) {
	meta := `{"customcat_original": {
	  "product_colors": [{"color_name": "black"}, {"product_image": "//x/b.jpg"}]
	}}`
	img, _ := customcat.ResolveImages(meta, "", "")
	if img != "https://x/b.jpg" {
		t.Fatalf("want first color with an image, got %q", img)
	}
}

func TestResolveImages_NormalizedDataFallback(t *testing.T) {
	// no original record at all: the normalized subset is the last layer
	meta := `{"customcat_data": {
	  "product_colors": [{}, {"product_image": "//x/b.jpg", "product_back_image": "//x/b-back.jpg"}]
	}}`
	img, thumb := customcat.ResolveImages(meta, "", "")
	if img != "https://x/b.jpg" {
		t.Fatalf("want normalized-data fallback, got %q", img)
	}
	if thumb != "https://x/b-back.jpg" {
		t.Fatalf("want fallback back image, got %q", thumb)
	}
}

func TestResolveImages_NoLayerKeepsCurrent(t *testing.T) {
	img, thumb := customcat.ResolveImages(`{}`, "/media/existing.jpg", "")
	if img != "/media/existing.jpg" || thumb != "" {
		t.Fatalf("no layer must leave values untouched, got %q %q", img, thumb)
	}

	// malformed metadata behaves the same
	img, _ = customcat.ResolveImages(`{nope`, "/media/existing.jpg", "")
	if img != "/media/existing.jpg" {
		t.Fatalf("malformed metadata must not clobber the image, got %q", img)
	}
}

func TestResolveImages_AbsoluteURLUntouched(t *testing.T) {
	meta := `{"customcat_original": {"product_image": "https://cdn.example.com/a.jpg"}}`
	img, _ := customcat.ResolveImages(meta, "", "")
	if img != "https://cdn.example.com/a.jpg" {
		t.Fatalf("absolute URL must pass through, got %q", img)
	}
}
