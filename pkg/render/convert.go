package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/wellpos/pkg/errors"
)

// Converter is the external tool used for SVG conversion.
const Converter = "rsvg-convert"

// DefaultScale is the PNG scale factor used when none is given.
const DefaultScale = 2.0

// ToPDF converts an SVG document to PDF.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(context.Background(), svg, "-f", "pdf")
}

// ToPNG converts an SVG document to PNG. A scale of 2.0 doubles the
// resolution; non-positive scales fall back to [DefaultScale].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	return convert(context.Background(), svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(Converter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnsupported, err,
			"%s not found (install librsvg)", Converter)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "%s: %s", Converter, msg)
	}
	return out.Bytes(), nil
}
