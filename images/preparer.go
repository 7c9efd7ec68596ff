// Package images prepares uploaded product photos: resize to a long-edge
// cap, re-encode under a size budget, and fall back to the original bytes
// when the image cannot be processed.
package images

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrSuperseded is returned when a newer preparation job was started before
// this one finished. The stale result is discarded, never published.
var ErrSuperseded = errors.New("preparation superseded by a newer job")

// State of the preparer with respect to the latest job.
type State int

const (
	StateIdle State = iota
	StateCompressing
	StateReady
	StateFallbackReady
)

const (
	defaultMaxEdge  = 1600
	defaultMaxBytes = 600 * 1024
	startQuality    = 85
	minQuality      = 40
	qualityStep     = 10
)

// Prepared is the outcome of one preparation job. It owns a preview file on
// local disk that must be released when the result is superseded or the
// editing surface closes.
type Prepared struct {
	Data        []byte
	ContentType string
	// Fallback marks a result that carries the original bytes because
	// compression failed.
	Fallback bool

	previewPath string
	releaseOnce sync.Once
}

// PreviewPath is the locally-displayable preview file for this result.
func (p *Prepared) PreviewPath() string {
	return p.previewPath
}

// Release removes the preview file. Safe to call more than once.
func (p *Prepared) Release() {
	p.releaseOnce.Do(func() {
		if p.previewPath != "" {
			os.Remove(p.previewPath)
		}
	})
}

// Preparer runs at most one visible preparation result at a time. Jobs are
// identified by a strictly increasing counter; only the result of the latest
// job may publish. Results of superseded jobs are discarded on arrival, the
// jobs themselves are never aborted mid-flight.
type Preparer struct {
	MaxEdge  int
	MaxBytes int

	mu     sync.Mutex
	seq    uint64
	state  State
	latest *Prepared
}

func NewPreparer() *Preparer {
	return &Preparer{
		MaxEdge:  defaultMaxEdge,
		MaxBytes: defaultMaxBytes,
	}
}

// begin registers a new job and supersedes every job started before it.
func (p *Preparer) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.state = StateCompressing
	return p.seq
}

// publish installs the result of job id, unless a newer job has started. The
// previous latest preview is released when replaced.
func (p *Preparer) publish(id uint64, result *Prepared) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id != p.seq {
		result.Release()
		return ErrSuperseded
	}
	if p.latest != nil {
		p.latest.Release()
	}
	p.latest = result
	if result.Fallback {
		p.state = StateFallbackReady
	} else {
		p.state = StateReady
	}
	return nil
}

// Prepare compresses one selected file and publishes it as the latest
// result. A decode or encode failure falls back to the original bytes rather
// than blocking the caller.
func (p *Preparer) Prepare(ctx context.Context, data []byte) (*Prepared, error) {
	id := p.begin()

	out, fallback := p.compress(data)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Prepared{
		Data:     out,
		Fallback: fallback,
	}
	if fallback {
		result.ContentType = "application/octet-stream"
	} else {
		result.ContentType = "image/jpeg"
	}

	if path, err := writePreview(out); err == nil {
		result.previewPath = path
	}

	if err := p.publish(id, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Latest returns the current visible result, if any, and the preparer state.
func (p *Preparer) Latest() (*Prepared, State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.state
}

// Close releases the latest preview. Call when the editing surface closes.
func (p *Preparer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest != nil {
		p.latest.Release()
		p.latest = nil
	}
	p.state = StateIdle
}

// compress re-encodes data as JPEG under the long-edge cap, stepping quality
// down until the output fits the size budget. The second return is true when
// the original bytes are passed through unprocessed.
func (p *Preparer) compress(data []byte) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, true
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.MaxEdge || bounds.Dy() > p.MaxEdge {
		img = imaging.Fit(img, p.MaxEdge, p.MaxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	for q := startQuality; q >= minQuality; q -= qualityStep {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return data, true
		}
		if buf.Len() <= p.MaxBytes {
			break
		}
	}
	return buf.Bytes(), false
}

func writePreview(data []byte) (string, error) {
	f, err := os.CreateTemp("", "preview-*.img")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
