// Package registry streams remote container images through the scan
// pipeline: the image config (env vars, labels) and every text file in
// every layer become artifacts, without pulling the image to disk.
package registry

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

// Limits bounds how much of an image is scanned before giving up.
type Limits struct {
	MaxFileBytes  int64 // per-entry decompressed size cap
	MaxTotalBytes int64 // total decompressed bytes per image
	MaxEntries    int   // total regular files per image
}

// DefaultLimits are safe bounds for CI use.
func DefaultLimits() Limits {
	return Limits{MaxFileBytes: 1 << 20, MaxTotalBytes: 64 << 20, MaxEntries: 2000}
}

// Stats counts abort reasons during image scanning.
type Stats struct {
	AbortedByBytes   int
	AbortedByEntries int
}

// ScanImage fetches image metadata and streams the config and layer files
// to emit. Authentication uses the local Docker keychain.
func ScanImage(imageRef string, limits Limits, emit func(path string, data []byte), stats *Stats) error {
	ref, err := name.ParseReference(imageRef)
	if err != nil {
		return fmt.Errorf("invalid image reference %q: %w", imageRef, err)
	}

	img, err := remote.Image(ref, remote.WithAuthFromKeychain(authn.DefaultKeychain))
	if err != nil {
		return fmt.Errorf("failed to fetch image metadata for %q: %w", imageRef, err)
	}

	// Image config first: env vars and labels are where compliance
	// violations in images most often live.
	if cf, err := img.ConfigFile(); err == nil {
		var sb strings.Builder
		for _, e := range cf.Config.Env {
			sb.WriteString(e)
			sb.WriteByte('\n')
		}
		for k, v := range cf.Config.Labels {
			fmt.Fprintf(&sb, "%s=%s\n", k, v)
		}
		if sb.Len() > 0 {
			emit(imageRef+"::config.env", []byte(sb.String()))
		}
	}

	layers, err := img.Layers()
	if err != nil {
		return fmt.Errorf("failed to get layers for %q: %w", imageRef, err)
	}

	var total int64
	var entries int
	for _, layer := range layers {
		digest, err := layer.Digest()
		if err != nil {
			continue
		}
		rc, err := layer.Uncompressed()
		if err != nil {
			return fmt.Errorf("failed to read layer %s: %w", digest, err)
		}
		vp := fmt.Sprintf("%s::%s", imageRef, digest.String())
		err = scanTar(vp, rc, limits, &total, &entries, emit, stats)
		_ = rc.Close()
		if err != nil {
			if errors.Is(err, errLimit) {
				return nil
			}
			return err
		}
	}
	return nil
}

var errLimit = errors.New("image scan limit reached")

func scanTar(virtualPath string, r io.Reader, limits Limits, total *int64, entries *int, emit func(string, []byte), stats *Stats) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// A torn layer should not abort the whole image.
			return nil
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if limits.MaxFileBytes > 0 && hdr.Size > limits.MaxFileBytes {
			continue
		}
		*entries++
		if limits.MaxEntries > 0 && *entries > limits.MaxEntries {
			if stats != nil {
				stats.AbortedByEntries++
			}
			return errLimit
		}
		data, err := io.ReadAll(io.LimitReader(tr, limits.MaxFileBytes+1))
		if err != nil {
			continue
		}
		*total += int64(len(data))
		if limits.MaxTotalBytes > 0 && *total > limits.MaxTotalBytes {
			if stats != nil {
				stats.AbortedByBytes++
			}
			return errLimit
		}
		emit(virtualPath+"/"+strings.TrimPrefix(hdr.Name, "/"), data)
	}
}
