package poicontent

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"log/slog"

	"github.com/nfnt/resize"

	// Codecs the bind path can thumbnail. Anything else is kept as a plain
	// file without a thumbnail.
	_ "image/gif"
	_ "image/jpeg"
)

// thumbnailBound is the box the thumbnail must fit in, in pixels.
const thumbnailBound = 120

// generateThumbnail reads the stored file back, scales it to fit the bound
// and returns the result as a base64-encoded PNG.
//
// A format the codecs cannot decode is expected (the extension allow-list is
// wider than the registered decoders) and returns the error silently; any
// other failure is logged before returning, since it may mask a genuine I/O
// problem. Callers treat every error the same way: no thumbnail, keep the
// file.
func (s *service) generateThumbnail(ctx context.Context, key string) (string, error) {
	rc, err := s.store.Download(ctx, key)
	if err != nil {
		slog.Warn("thumbnail source unreadable", "key", key, "err", err)
		return "", err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		if !errors.Is(err, image.ErrFormat) {
			slog.Warn("thumbnail decode failed", "key", key, "err", err)
		}
		return "", err
	}

	thumb := resize.Thumbnail(thumbnailBound, thumbnailBound, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		slog.Warn("thumbnail encode failed", "key", key, "err", err)
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
