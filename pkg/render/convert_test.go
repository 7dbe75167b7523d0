package render

import (
	"testing"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`

func TestConvertMissingTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if Available() {
		t.Fatal("converter should not be found on an empty PATH")
	}
	for name, fn := range map[string]func() ([]byte, error){
		"pdf": func() ([]byte, error) { return ToPDF([]byte(tinySVG)) },
		"png": func() ([]byte, error) { return ToPNG([]byte(tinySVG), 1) },
	} {
		if _, err := fn(); !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
			t.Errorf("%s: err = %v, want %s", name, err, apperrors.ErrCodeUnsupported)
		}
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip(Converter + " not installed")
	}
	png, err := ToPNG([]byte(tinySVG), 0)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
	pdf, err := ToPDF([]byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Error("output is not a PDF")
	}
}
